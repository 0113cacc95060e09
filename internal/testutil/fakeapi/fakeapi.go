// Package fakeapi serves an in-memory key API for tests.
package fakeapi

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie is the upstream cookie the fake expects when RequireSession is set
const SessionCookie = constants.UpstreamSessionCookieName

// Server is an in-memory key API
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	calls          map[string]int
	failures       map[string]int
	requireSession bool

	User        *models.User
	LogoutURL   string
	Keys        map[string]*models.Key
	Revisions   map[string]*models.Revision
	Collections map[string]*models.Collection
	Groups      map[string]*models.Group
	Workgroups  map[string]*models.Workgroup
	Editors     map[string][]models.KeyEditor
	Orgs        []models.Organization
	Media       map[string]*models.Media
	Cleanups    []CleanupCall
}

// CleanupCall records a premise cleanup request
type CleanupCall struct {
	RevisionID    string
	CharacterID   string
	RemovedStates []string
}

// New starts a fake key API. Close it with t.Cleanup(srv.Close).
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		calls:       make(map[string]int),
		failures:    make(map[string]int),
		LogoutURL:   "https://login.artsapp.test/logout",
		Keys:        make(map[string]*models.Key),
		Revisions:   make(map[string]*models.Revision),
		Collections: make(map[string]*models.Collection),
		Groups:      make(map[string]*models.Group),
		Workgroups:  make(map[string]*models.Workgroup),
		Editors:     make(map[string][]models.KeyEditor),
		Media:       make(map[string]*models.Media),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// RequireSession makes every endpoint answer 401 without the session cookie
func (s *Server) RequireSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireSession = true
}

// Fail makes the next calls of route ("POST /revisions") answer with status
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Calls returns how often route was called
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of calls to any route
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// PutRevision stores a revision and returns its id
func (s *Server) PutRevision(rev models.Revision) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	s.Revisions[rev.ID] = &rev
	return rev.ID
}

// PutKey stores a key and returns its id
func (s *Server) PutKey(key models.Key) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key.ID == "" {
		key.ID = uuid.NewString()
	}
	s.Keys[key.ID] = &key
	return key.ID
}

// Revision returns a stored revision
func (s *Server) Revision(id string) (models.Revision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.Revisions[id]
	if !ok {
		return models.Revision{}, false
	}
	return *r, true
}

func (s *Server) routes() http.Handler {
	r := gin.New()
	r.Use(s.track)

	r.GET("/auth", s.getAuth)
	r.GET("/auth/logout/url", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"url": s.LogoutURL}) })

	r.GET("/keys", s.listKeys)
	r.POST("/keys", s.createKey)
	r.GET("/keys/:id", s.getKey)
	r.PUT("/keys/:id", s.updateKey)
	r.GET("/editors", s.listEditors)
	r.POST("/editors", s.addEditor)
	r.DELETE("/editors", s.removeEditor)

	r.GET("/revisions/key/:keyId", s.listRevisions)
	r.GET("/revisions/:id", s.getRevision)
	r.POST("/revisions", s.createRevision)
	r.PUT("/revisions/status", s.updateRevisionField)
	r.PUT("/revisions/mode", s.updateRevisionField)
	r.PUT("/revisions/note", s.updateRevisionField)

	r.POST("/taxa", s.changeTaxon)
	r.PUT("/taxa", s.changeTaxon)
	r.DELETE("/taxa", s.deleteTaxon)
	r.POST("/characters", s.changeCharacter)
	r.PUT("/characters", s.changeCharacter)
	r.DELETE("/characters", s.deleteCharacter)
	r.PUT("/characters/state", s.updateStates)
	r.PUT("/characters/premise/:revisionId", s.updatePremise)
	r.PUT("/characters/states/revision/:revisionId", s.cleanupPremises)

	r.GET("/collections", s.listCollections)
	r.POST("/collections", s.saveCollection)
	r.PUT("/collections/:id", s.saveCollection)
	r.DELETE("/collections/:id", s.deleteCollection)
	r.POST("/collections/key", s.collectionKey)
	r.DELETE("/collections/key", s.collectionKey)

	r.GET("/groups", s.listGroups)
	r.POST("/groups", s.saveGroup)
	r.PUT("/groups/:id", s.saveGroup)
	r.DELETE("/groups/:id", s.deleteGroup)

	r.GET("/workgroups", s.listWorkgroups)
	r.POST("/workgroups", s.saveWorkgroup)
	r.PUT("/workgroups/:id", s.saveWorkgroup)
	r.DELETE("/workgroups/:id", s.deleteWorkgroup)
	r.POST("/workgroups/users", s.addWorkgroupUser)
	r.DELETE("/workgroups/users", s.removeWorkgroupUser)

	r.GET("/organizations", func(c *gin.Context) { c.JSON(http.StatusOK, s.Orgs) })

	r.POST("/media/:entity", s.uploadMedia)
	r.PUT("/media/:entity", s.updateMedia)
	r.DELETE("/media/:entity", s.deleteMedia)
	return r
}

func (s *Server) track(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()
	s.mu.Lock()
	s.calls[route]++
	status, failing := s.failures[route]
	requireSession := s.requireSession
	s.mu.Unlock()

	if failing {
		c.AbortWithStatusJSON(status, gin.H{"message": "injected failure"})
		return
	}
	if requireSession {
		if _, err := c.Cookie(SessionCookie); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "no session"})
			return
		}
	}
	c.Next()
}

func (s *Server) getAuth(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.User == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, s.User)
}

// ================================================================================
// Keys
// ================================================================================

func (s *Server) listKeys(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Key, 0, len(s.Keys))
	for _, k := range s.Keys {
		out = append(out, *k)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createKey(c *gin.Context) {
	var key models.Key
	if err := c.ShouldBindJSON(&key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	key.ID = uuid.NewString()
	if key.Status == "" {
		key.Status = constants.KeyStatusPrivate
	}
	s.mu.Lock()
	s.Keys[key.ID] = &key
	s.mu.Unlock()
	c.JSON(http.StatusCreated, key)
}

func (s *Server) getKey(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.Keys[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such key"})
		return
	}
	c.JSON(http.StatusOK, k)
}

func (s *Server) updateKey(c *gin.Context) {
	var key models.Key
	if err := c.ShouldBindJSON(&key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Keys[c.Param("id")]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such key"})
		return
	}
	key.ID = c.Param("id")
	s.Keys[key.ID] = &key
	c.JSON(http.StatusOK, key)
}

func (s *Server) listEditors(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	editors := s.Editors[c.Query("keyId")]
	if editors == nil {
		editors = []models.KeyEditor{}
	}
	c.JSON(http.StatusOK, editors)
}

func (s *Server) addEditor(c *gin.Context) {
	var e models.KeyEditor
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.Editors[e.KeyID] {
		if existing.UserID == e.UserID {
			c.JSON(http.StatusConflict, gin.H{"message": "already an editor"})
			return
		}
	}
	s.Editors[e.KeyID] = append(s.Editors[e.KeyID], e)
	c.Status(http.StatusNoContent)
}

func (s *Server) removeEditor(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keyID, userID := c.Query("keyId"), c.Query("userId")
	kept := s.Editors[keyID][:0]
	for _, e := range s.Editors[keyID] {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	s.Editors[keyID] = kept
	c.Status(http.StatusNoContent)
}

// ================================================================================
// Revisions
// ================================================================================

func (s *Server) listRevisions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Revision{}
	for _, r := range s.Revisions {
		if r.KeyID == c.Param("keyId") {
			out = append(out, *r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getRevision(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.Revisions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such revision"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) createRevision(c *gin.Context) {
	var body struct {
		KeyID   string                 `json:"keyId"`
		Content models.RevisionContent `json:"content"`
		Mode    constants.RevisionMode `json:"mode"`
		Note    string                 `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Keys[body.KeyID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such key"})
		return
	}
	rev := &models.Revision{ID: uuid.NewString(), KeyID: body.KeyID, Content: body.Content, Mode: body.Mode, Note: body.Note}
	if s.User != nil {
		rev.CreatedBy = s.User.ID
	}
	s.Revisions[rev.ID] = rev
	c.JSON(http.StatusCreated, rev)
}

func (s *Server) updateRevisionField(c *gin.Context) {
	var body struct {
		RevisionID string                   `json:"revisionId"`
		Status     constants.RevisionStatus `json:"status"`
		Mode       constants.RevisionMode   `json:"mode"`
		Note       *string                  `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rev, ok := s.Revisions[body.RevisionID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such revision"})
		return
	}
	switch {
	case strings.HasSuffix(c.FullPath(), "/status"):
		rev.Status = body.Status
	case strings.HasSuffix(c.FullPath(), "/mode"):
		rev.Mode = body.Mode
	default:
		if body.Note != nil {
			rev.Note = *body.Note
		}
	}
	c.Status(http.StatusNoContent)
}

// derive copies a revision into a new one and applies fn; fn answers an HTTP
// status and message when the change is rejected.
func (s *Server) derive(c *gin.Context, keyID, revisionID string, fn func(content *models.RevisionContent) (int, string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base, ok := s.Revisions[revisionID]
	if !ok || base.KeyID != keyID {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such revision"})
		return
	}
	content := base.Content.Clone()
	if status, msg := fn(&content); status != 0 {
		c.JSON(status, gin.H{"message": msg})
		return
	}
	rev := &models.Revision{ID: uuid.NewString(), KeyID: keyID, Content: content, Mode: base.Mode}
	s.Revisions[rev.ID] = rev
	c.JSON(http.StatusOK, rev)
}

// ================================================================================
// Content
// ================================================================================

type refBody struct {
	KeyID      string `json:"keyId"`
	RevisionID string `json:"revisionId"`
}

func (s *Server) changeTaxon(c *gin.Context) {
	var body struct {
		refBody
		Taxon models.Taxon `json:"taxon"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	creating := c.Request.Method == http.MethodPost
	s.derive(c, body.KeyID, body.RevisionID, func(content *models.RevisionContent) (int, string) {
		flat := models.FlattenTaxa(content.Taxa)
		for _, t := range flat {
			if t.ScientificName == body.Taxon.ScientificName && t.ID != body.Taxon.ID {
				return http.StatusConflict, "taxon exists"
			}
		}
		if creating {
			body.Taxon.ID = uuid.NewString()
			flat = append(flat, body.Taxon)
		} else {
			found := false
			for i := range flat {
				if flat[i].ID == body.Taxon.ID {
					flat[i] = body.Taxon
					found = true
				}
			}
			if !found {
				return http.StatusNotFound, "no such taxon"
			}
		}
		content.Taxa = flat
		return 0, ""
	})
}

func (s *Server) deleteTaxon(c *gin.Context) {
	id := c.Query("taxonId")
	s.derive(c, c.Query("keyId"), c.Query("revisionId"), func(content *models.RevisionContent) (int, string) {
		kept := []models.Taxon{}
		for _, t := range models.FlattenTaxa(content.Taxa) {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		content.Taxa = kept
		return 0, ""
	})
}

func (s *Server) changeCharacter(c *gin.Context) {
	var body struct {
		refBody
		Character models.Character `json:"character"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	creating := c.Request.Method == http.MethodPost
	s.derive(c, body.KeyID, body.RevisionID, func(content *models.RevisionContent) (int, string) {
		if creating {
			body.Character.ID = uuid.NewString()
			content.Characters = append(content.Characters, body.Character)
			return 0, ""
		}
		existing, ok := content.FindCharacter(body.Character.ID)
		if !ok {
			return http.StatusNotFound, "no such character"
		}
		*existing = body.Character
		return 0, ""
	})
}

func (s *Server) deleteCharacter(c *gin.Context) {
	id := c.Query("characterId")
	s.derive(c, c.Query("keyId"), c.Query("revisionId"), func(content *models.RevisionContent) (int, string) {
		kept := []models.Character{}
		for _, ch := range content.Characters {
			if ch.ID != id {
				kept = append(kept, ch)
			}
		}
		content.Characters = kept
		return 0, ""
	})
}

func (s *Server) updateStates(c *gin.Context) {
	var body struct {
		refBody
		CharacterID string                 `json:"characterId"`
		States      models.CharacterStates `json:"states"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.derive(c, body.KeyID, body.RevisionID, func(content *models.RevisionContent) (int, string) {
		ch, ok := content.FindCharacter(body.CharacterID)
		if !ok {
			return http.StatusNotFound, "no such character"
		}
		for i := range body.States.List {
			if body.States.List[i].ID == "" {
				body.States.List[i].ID = uuid.NewString()
			}
		}
		ch.States = body.States
		return 0, ""
	})
}

func (s *Server) updatePremise(c *gin.Context) {
	var body struct {
		refBody
		CharacterID    string                `json:"characterId"`
		LogicalPremise models.LogicalPremise `json:"logicalPremise"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if body.RevisionID != c.Param("revisionId") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "revision mismatch"})
		return
	}
	s.derive(c, body.KeyID, body.RevisionID, func(content *models.RevisionContent) (int, string) {
		ch, ok := content.FindCharacter(body.CharacterID)
		if !ok {
			return http.StatusNotFound, "no such character"
		}
		ch.LogicalPremise = body.LogicalPremise
		return 0, ""
	})
}

func (s *Server) cleanupPremises(c *gin.Context) {
	var body struct {
		refBody
		CharacterID   string   `json:"characterId"`
		RemovedStates []string `json:"removedStates"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	s.Cleanups = append(s.Cleanups, CleanupCall{RevisionID: c.Param("revisionId"), CharacterID: body.CharacterID, RemovedStates: body.RemovedStates})
	s.mu.Unlock()

	removed := make(map[string]bool, len(body.RemovedStates))
	for _, id := range body.RemovedStates {
		removed[id] = true
	}
	s.derive(c, body.KeyID, c.Param("revisionId"), func(content *models.RevisionContent) (int, string) {
		for i := range content.Characters {
			p := &content.Characters[i].LogicalPremise
			var groups []models.PremiseGroup
			for _, g := range p.Groups {
				var kept []models.PremiseCondition
				for _, cond := range g.Conditions {
					if cond.CharacterID == body.CharacterID && removed[cond.StateID] {
						continue
					}
					kept = append(kept, cond)
				}
				if len(kept) > 0 {
					groups = append(groups, models.PremiseGroup{Operator: g.Operator, Conditions: kept})
				}
			}
			if len(groups) == 0 {
				*p = models.LogicalPremise{}
				continue
			}
			p.Groups = groups
		}
		return 0, ""
	})
}

// ================================================================================
// Organization
// ================================================================================

func nameTaken(existing map[string]string, id, name string) bool {
	if name == "" {
		return false
	}
	for otherID, other := range existing {
		if otherID != id && strings.EqualFold(other, name) {
			return true
		}
	}
	return false
}

func (s *Server) listCollections(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Collection{}
	for _, col := range s.Collections {
		out = append(out, *col)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) saveCollection(c *gin.Context) {
	var col models.Collection
	if err := c.ShouldBindJSON(&col); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id := c.Param("id"); id != "" {
		col.ID = id
	} else {
		col.ID = uuid.NewString()
	}
	names := make(map[string]string)
	for id, other := range s.Collections {
		names[id] = other.Name.Get(constants.LanguageNorwegian)
	}
	if nameTaken(names, col.ID, col.Name.Get(constants.LanguageNorwegian)) {
		c.JSON(http.StatusConflict, gin.H{"message": "collection exists"})
		return
	}
	s.Collections[col.ID] = &col
	c.JSON(http.StatusOK, col)
}

func (s *Server) deleteCollection(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Collections, c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) collectionKey(c *gin.Context) {
	var body struct {
		CollectionID string `json:"collectionId"`
		KeyID        string `json:"keyId"`
	}
	if c.Request.Method == http.MethodDelete {
		body.CollectionID, body.KeyID = c.Query("collectionId"), c.Query("keyId")
	} else if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.Collections[body.CollectionID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such collection"})
		return
	}
	kept := []string{}
	for _, k := range col.Keys {
		if k != body.KeyID {
			kept = append(kept, k)
		}
	}
	if c.Request.Method == http.MethodPost {
		kept = append(kept, body.KeyID)
	}
	col.Keys = kept
	c.Status(http.StatusNoContent)
}

func (s *Server) listGroups(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Group{}
	for _, g := range s.Groups {
		out = append(out, *g)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) saveGroup(c *gin.Context) {
	var g models.Group
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id := c.Param("id"); id != "" {
		g.ID = id
	} else {
		g.ID = uuid.NewString()
	}
	names := make(map[string]string)
	for id, other := range s.Groups {
		names[id] = other.Name.Get(constants.LanguageNorwegian)
	}
	if nameTaken(names, g.ID, g.Name.Get(constants.LanguageNorwegian)) {
		c.JSON(http.StatusConflict, gin.H{"message": "group exists"})
		return
	}
	s.Groups[g.ID] = &g
	c.JSON(http.StatusOK, g)
}

func (s *Server) deleteGroup(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Groups, c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) listWorkgroups(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Workgroup{}
	for _, w := range s.Workgroups {
		out = append(out, *w)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) saveWorkgroup(c *gin.Context) {
	var w models.Workgroup
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id := c.Param("id"); id != "" {
		w.ID = id
	} else {
		w.ID = uuid.NewString()
	}
	names := make(map[string]string)
	for id, other := range s.Workgroups {
		names[id] = other.Name
	}
	if nameTaken(names, w.ID, w.Name) {
		c.JSON(http.StatusConflict, gin.H{"message": "workgroup exists"})
		return
	}
	if existing, ok := s.Workgroups[w.ID]; ok && w.Users == nil {
		w.Users = existing.Users
	}
	s.Workgroups[w.ID] = &w
	c.JSON(http.StatusOK, w)
}

func (s *Server) deleteWorkgroup(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Workgroups, c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) addWorkgroupUser(c *gin.Context) {
	var body struct {
		WorkgroupID string `json:"workgroupId"`
		models.WorkgroupUser
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.Workgroups[body.WorkgroupID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such workgroup"})
		return
	}
	for _, u := range w.Users {
		if u.UserID == body.UserID {
			c.JSON(http.StatusConflict, gin.H{"message": "already a member"})
			return
		}
	}
	w.Users = append(w.Users, body.WorkgroupUser)
	c.Status(http.StatusNoContent)
}

func (s *Server) removeWorkgroupUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.Workgroups[c.Query("workgroupId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such workgroup"})
		return
	}
	kept := []models.WorkgroupUser{}
	for _, u := range w.Users {
		if u.UserID != c.Query("userId") {
			kept = append(kept, u)
		}
	}
	w.Users = kept
	c.Status(http.StatusNoContent)
}

// ================================================================================
// Media
// ================================================================================

func (s *Server) uploadMedia(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	defer f.Close()
	n, _ := io.Copy(io.Discard, f)

	m := &models.Media{ID: uuid.NewString(), FileName: fh.Filename, Title: models.Translations{constants.LanguageNorwegian: fmt.Sprintf("%s (%d bytes)", fh.Filename, n)}}
	s.mu.Lock()
	s.Media[m.ID] = m
	s.mu.Unlock()
	c.JSON(http.StatusCreated, m)
}

func (s *Server) updateMedia(c *gin.Context) {
	var m models.Media
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.Media[m.ID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no such media"})
		return
	}
	if m.FileName == "" {
		m.FileName = existing.FileName
	}
	s.Media[m.ID] = &m
	c.JSON(http.StatusOK, m)
}

func (s *Server) deleteMedia(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Media, c.Query("mediaId"))
	c.Status(http.StatusNoContent)
}

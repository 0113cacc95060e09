package models

import (
	"encoding/json"
	"testing"

	"github.com/artsapp/builder/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_IsPermitted(t *testing.T) {
	editor := &User{
		ID:          "u1",
		Workgroups:  []string{"wg1"},
		Permissions: []string{constants.PermissionEditKey, constants.PermissionCreateRevision},
	}

	tests := []struct {
		name        string
		user        *User
		permissions []string
		workgroupID string
		want        bool
	}{
		{"subset without workgroup", editor, []string{constants.PermissionEditKey}, "", true},
		{"empty requirement", editor, nil, "", true},
		{"missing permission", editor, []string{constants.PermissionEditKey, constants.PermissionPublishKey}, "", false},
		{"member of workgroup", editor, []string{constants.PermissionCreateRevision}, "wg1", true},
		{"not a member", editor, []string{constants.PermissionEditKey}, "wg2", false},
		{"not a member without permissions", editor, nil, "wg2", false},
		{"nil user", nil, nil, "", false},
		{"no permissions held", &User{}, []string{constants.PermissionEditKey}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsPermitted(tt.permissions, tt.workgroupID))
		})
	}
}

func TestAppState_Immutable(t *testing.T) {
	base := NewAppState("xx")
	assert.Equal(t, constants.LanguageNorwegian, base.Language())

	en := base.WithLanguage(constants.LanguageEnglish)
	assert.Equal(t, constants.LanguageEnglish, en.Language())
	assert.Equal(t, constants.LanguageNorwegian, base.Language())

	user := &User{ID: "u1", Permissions: []string{constants.PermissionEditKey}}
	signedIn := en.WithUser(user)
	user.Permissions[0] = constants.PermissionDeleteKey

	assert.True(t, signedIn.SignedIn())
	assert.False(t, en.SignedIn())
	assert.True(t, signedIn.IsPermitted([]string{constants.PermissionEditKey}, ""))

	got := signedIn.User()
	got.Permissions[0] = "MUTATED"
	assert.True(t, signedIn.IsPermitted([]string{constants.PermissionEditKey}, ""))

	out := signedIn.SignedOut()
	assert.False(t, out.SignedIn())
	assert.Equal(t, constants.LanguageEnglish, out.Language())
	assert.Nil(t, out.User())
}

func TestStatementValue_JSON(t *testing.T) {
	tests := []struct {
		in       string
		stateIDs []string
		multi    bool
		rng      *ValueRange
	}{
		{`"s1"`, []string{"s1"}, false, nil},
		{`["s1","s2"]`, []string{"s1", "s2"}, true, nil},
		{`[1.5,4]`, nil, false, &ValueRange{Min: 1.5, Max: 4}},
	}
	for _, tt := range tests {
		var v StatementValue
		require.NoError(t, json.Unmarshal([]byte(tt.in), &v), tt.in)
		assert.Equal(t, tt.stateIDs, v.StateIDs)
		assert.Equal(t, tt.multi, v.Multi)
		assert.Equal(t, tt.rng, v.Range)

		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.JSONEq(t, tt.in, string(out))
	}

	var s Statement
	require.NoError(t, json.Unmarshal([]byte(`{"taxonId":"t1","characterId":"c1"}`), &s))
	assert.Nil(t, s.Value)
	assert.True(t, s.Value.IsEmpty())

	var bad StatementValue
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestCharacterStates_JSON(t *testing.T) {
	var c Character
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","type":"NUMERICAL","states":{"min":0,"max":20,"stepSize":0.5,"unit":"cm"}}`), &c))
	r, ok := c.Range()
	require.True(t, ok)
	assert.Equal(t, 20.0, r.Max)
	assert.Nil(t, c.States.List)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"c2","type":"EXCLUSIVE","states":[{"id":"s1","title":{"no":"Rød"}},{"id":"s2","title":{"no":"Blå"}}]}`), &c))
	assert.Equal(t, []string{"s1", "s2"}, c.StateIDs())
	assert.True(t, c.HasState("s2"))
	_, ok = c.Range()
	assert.False(t, ok)
}

func TestTaxonIndex(t *testing.T) {
	taxa := []Taxon{
		{ID: "birds", Children: []Taxon{
			{ID: "corvids", Children: []Taxon{{ID: "raven"}, {ID: "crow"}}},
			{ID: "owls"},
		}},
		{ID: "fish"},
	}

	flat := FlattenTaxa(taxa)
	require.Len(t, flat, 6)
	assert.Equal(t, "corvids", flat[2].ParentID)

	idx := NewTaxonIndex(taxa)
	assert.Equal(t, []string{"corvids", "birds"}, idx.Ancestors("raven"))
	assert.ElementsMatch(t, []string{"corvids", "owls", "raven", "crow"}, idx.Descendants("birds"))
	assert.Empty(t, idx.Related("fish"))
	assert.True(t, idx.Contains("crow"))

	found, ok := FindTaxon(taxa, "crow")
	require.True(t, ok)
	assert.Equal(t, "crow", found.ID)
}

func TestLanguageList(t *testing.T) {
	assert.Equal(t, []string{"no"}, LanguageList(map[string]bool{"no": true, "en": false}))
	assert.Equal(t, []string{"no", "en"}, LanguageList(map[string]bool{"en": true, "no": true, "de": true}))
	assert.Empty(t, LanguageList(nil))
}

func TestGroupCreatesCycle(t *testing.T) {
	groups := []Group{{ID: "a"}, {ID: "b", ParentID: "a"}, {ID: "c", ParentID: "b"}}

	assert.False(t, GroupCreatesCycle(groups, "", "c"))
	assert.False(t, GroupCreatesCycle(groups, "c", "a"))
	assert.True(t, GroupCreatesCycle(groups, "a", "c"))
	assert.True(t, GroupCreatesCycle(groups, "a", "a"))
}

func TestRevision_Status(t *testing.T) {
	revs := []Revision{{ID: "r1"}, {ID: "r2", Status: constants.RevisionStatusAccepted}, {ID: "r3", Status: constants.RevisionStatusReview}}
	assert.Equal(t, constants.RevisionStatusDraft, revs[0].EffectiveStatus())
	accepted := AcceptedOnly(revs)
	require.Len(t, accepted, 1)
	assert.Equal(t, "r2", accepted[0].ID)
}

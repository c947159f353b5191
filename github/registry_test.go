package github_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/github"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func TestRegistry_BootstrapsOnce(t *testing.T) {
	a, b := github.Registry(), github.Registry()
	assert.Same(t, a, b)
	assert.Equal(t, 20, a.Len())
	for _, n := range []string{github.NameRepository, github.NameMinimalRepository, github.NameIssueLabel, github.NameEmptyObject} {
		_, ok := a.Lookup(n)
		assert.True(t, ok, n)
	}
}

func TestRepository_DecodeTemplateCycle(t *testing.T) {
	reg := github.Registry()
	v, err := reg.Decode(fixture(t, "repository.json"), github.NameRepository)
	require.NoError(t, err)

	repo := v.(*sw.Record)
	tmpl, ok := repo.Get("template_repository")
	require.True(t, ok)
	inner := tmpl.(*sw.Record)
	assert.Equal(t, sw.StateNull, inner.State("template_repository"))
	assert.True(t, inner.IsNull("license"))

	lang, _ := inner.Get("language")
	assert.Equal(t, "Go", lang)
	assert.True(t, repo.IsNull("language"))

	owner, _ := repo.Get("owner")
	assert.Equal(t, sw.StateUnset, owner.(*sw.Record).State("name"))

	topics, _ := repo.Get("topics")
	assert.Equal(t, []any{"octocat", "atom", "electron", "api"}, topics)

	pushed, _ := repo.Get("pushed_at")
	assert.Equal(t, sw.DateTime("2011-01-26T19:06:43Z"), pushed)
}

func TestRepository_RoundTrip(t *testing.T) {
	reg := github.Registry()
	v, err := reg.Decode(fixture(t, "repository.json"), github.NameRepository)
	require.NoError(t, err)

	out, err := reg.Encode(v, github.NameRepository)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "followers_url")

	again, err := reg.Decode(out, github.NameRepository)
	require.NoError(t, err)
	assert.True(t, sw.Equal(v, again))
}

func TestRepository_FailsFastOnFirstField(t *testing.T) {
	reg := github.Registry()
	v, err := reg.DecodeValue(map[string]any{}, github.NameRepository)
	require.Error(t, err)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, sw.ErrPresenceViolation)
	assert.Equal(t, "repository.id", err.(sw.Issues).First().Path)
}

func TestRepository_OwnerPath(t *testing.T) {
	reg := github.Registry()
	raw := fixture(t, "repository.json")
	v, err := reg.Decode(raw, github.NameRepository)
	require.NoError(t, err)

	tree, err := reg.EncodeValue(v, github.NameRepository)
	require.NoError(t, err)
	obj := tree.(map[string]any)
	owner := obj["owner"].(map[string]any)
	delete(owner, "login")

	_, err = reg.DecodeValue(obj, github.NameRepository)
	iss, ok := sw.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, sw.CodeRequired, iss.First().Code)
	assert.Equal(t, "repository.owner.login", iss.First().Path)
	assert.Equal(t, "/owner/login", iss.First().Pointer)
}

func TestMinimalRepository_IsDerived(t *testing.T) {
	reg := github.Registry()
	full, err := reg.Record(github.NameRepository)
	require.NoError(t, err)
	minimal, err := reg.Record(github.NameMinimalRepository)
	require.NoError(t, err)

	for _, f := range minimal.Fields {
		base, ok := full.Field(f.Name)
		require.True(t, ok, f.Name)
		assert.True(t, sw.TypesEqual(base.Type, f.Type), f.Name)
	}
	forks, _ := minimal.Field("forks_count")
	assert.Equal(t, sw.Optional, forks.Presence)

	_, err = reg.Decode([]byte(`{
		"id": 1, "node_id": "n", "name": "x", "full_name": "o/x",
		"owner": {"login":"o","id":2,"node_id":"u","avatar_url":"a","gravatar_id":null,"url":"u","html_url":"h","type":"User","site_admin":false},
		"private": true, "html_url": "h", "description": null, "fork": false, "url": "u"
	}`), github.NameMinimalRepository)
	assert.NoError(t, err)
}

func TestIssue_Labels(t *testing.T) {
	reg := github.Registry()
	v, err := reg.Decode(fixture(t, "issue.json"), github.NameIssue)
	require.NoError(t, err)

	labels, _ := v.(*sw.Record).Get("labels")
	items := labels.([]any)
	require.Len(t, items, 2)

	first := items[0].(sw.Variant)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "bug", first.Value)

	second := items[1].(sw.Variant)
	assert.Equal(t, 1, second.Index)
	name, _ := second.Value.(*sw.Record).Get("name")
	assert.Equal(t, "enhancement", name)

	out, err := reg.Encode(v, github.NameIssue)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"labels":["bug",{"id":208045946,`)
}

func TestIssueLabel_NoMatch(t *testing.T) {
	reg := github.Registry()
	_, err := reg.Decode([]byte(`42`), github.NameIssueLabel)
	require.Error(t, err)
	assert.ErrorIs(t, err, sw.ErrNoMatchingVariant)

	iss, _ := sw.AsIssues(err)
	assert.Equal(t, []string{"string", "ref<label>"}, iss.First().Params["attempted"])
}

func TestDeployment_PayloadUnion(t *testing.T) {
	reg := github.Registry()
	v, err := reg.Decode(fixture(t, "deployment.json"), github.NameDeployment)
	require.NoError(t, err)

	payload, _ := v.(*sw.Record).Get("payload")
	pv := payload.(sw.Variant)
	assert.Equal(t, 0, pv.Index)
	assert.Contains(t, pv.Value.(map[string]any), "nested")

	s, err := reg.Decode([]byte(`"{\"deploy\":\"migrate\"}"`), github.NameDeploymentPayload)
	require.NoError(t, err)
	assert.Equal(t, sw.Variant{Index: 1, Value: `{"deploy":"migrate"}`}, s)

	out, err := reg.Encode(v, github.NameDeployment)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"payload":{"deploy":"migrate","nested":{"ok":true},"retries":3}`)
}

func TestEmptyObject(t *testing.T) {
	reg := github.Registry()
	v, err := reg.Decode([]byte(`{"unexpected":{"deep":[1]}}`), github.NameEmptyObject)
	require.NoError(t, err)
	assert.Equal(t, sw.Placeholder{}, v)

	out, err := reg.Encode(v, github.NameEmptyObject)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))

	_, err = reg.Decode([]byte(`[]`), github.NameEmptyObject)
	assert.ErrorIs(t, err, sw.ErrTypeMismatch)
}

func TestLiteralKeys(t *testing.T) {
	reg := github.Registry()
	feed := []byte(`{"timeline_url":"t","user_url":"u","_links":{"timeline":{"href":"t","type":"application/atom+xml"},"user":{"href":"u","type":"application/atom+xml"}}}`)
	v, err := reg.Decode(feed, github.NameFeed)
	require.NoError(t, err)
	out, err := reg.Encode(v, github.NameFeed)
	require.NoError(t, err)
	assert.JSONEq(t, string(feed), string(out))

	member := []byte(`{"value":"1","$ref":"https://api.github.com/scim/v2/Users/1","display":"octocat"}`)
	v, err = reg.Decode(member, github.NameScimMember)
	require.NoError(t, err)
	out, err = reg.Encode(v, github.NameScimMember)
	require.NoError(t, err)
	assert.Equal(t, string(member), string(out))
}

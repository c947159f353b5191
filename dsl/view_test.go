package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sw "github.com/reoring/schemawire"
	g "github.com/reoring/schemawire/dsl"
)

func canonicalRepo() *sw.RecordType {
	return g.Record("repository").Fields(
		g.Req("id", sw.Integer()),
		g.Req("name", sw.String()),
		g.Req("full_name", sw.String()),
		g.Null("description", sw.String()),
		g.Req("owner", sw.Ref("simple-user")),
		g.OptNull("template_repository", sw.Ref("repository")),
	).MustBuild()
}

func TestView_PickKeepsBaseOrder(t *testing.T) {
	v := g.View(canonicalRepo()).Named("minimal-repository").Pick("owner", "id", "name").MustBuild()
	assert.Equal(t, "minimal-repository", v.Name)
	assert.Equal(t, []string{"id", "name", "owner"}, v.FieldNames())
}

func TestView_OmitAndAllOptional(t *testing.T) {
	v := g.View(canonicalRepo()).Omit("template_repository").AllOptional().MustBuild()
	assert.Empty(t, v.Name)
	require.Len(t, v.Fields, 5)

	id, _ := v.Field("id")
	assert.Equal(t, sw.Optional, id.Presence)
	desc, _ := v.Field("description")
	assert.Equal(t, sw.OptionalNullable, desc.Presence)
}

func TestView_DoesNotMutateBase(t *testing.T) {
	base := canonicalRepo()
	_ = g.View(base).AllOptional().Rename("full_name", "fullName").MustBuild()

	f, ok := base.Field("full_name")
	require.True(t, ok)
	assert.Equal(t, sw.Required, f.Presence)
}

func TestView_PresenceAndExtend(t *testing.T) {
	v := g.View(canonicalRepo()).
		Pick("id", "name").
		Presence(sw.Nullable, "name").
		Extend(g.Opt("_links", sw.FreeForm())).
		MustBuild()
	assert.Equal(t, []string{"id", "name", "_links"}, v.FieldNames())
	name, _ := v.Field("name")
	assert.Equal(t, sw.Nullable, name.Presence)
}

func TestView_Errors(t *testing.T) {
	cases := map[string]*g.ViewBuilder{
		"pick unknown":   g.View(canonicalRepo()).Pick("nope"),
		"omit unknown":   g.View(canonicalRepo()).Omit("nope"),
		"rename clash":   g.View(canonicalRepo()).Rename("name", "full_name"),
		"extend clash":   g.View(canonicalRepo()).Extend(g.Req("id", sw.String())),
		"presence field": g.View(canonicalRepo()).Presence(sw.Optional, "nope"),
		"nil base":       g.View(nil),
	}
	for name, vb := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := vb.Build()
			assert.Error(t, err)
		})
	}
}

func TestView_RegistersAlongsideBase(t *testing.T) {
	repo := canonicalRepo()
	b := sw.NewBuilder()
	b.Register("simple-user", g.Object().Fields(g.Req("login", sw.String())).MustBuild())
	b.Register("repository", repo)
	b.Register("minimal-repository", g.View(repo).Pick("id", "name", "owner").MustBuild())
	reg, err := b.Build()
	require.NoError(t, err)

	v, err := reg.Decode([]byte(`{"id":7,"name":"x","owner":{"login":"octocat"},"full_name":"ignored"}`), "minimal-repository")
	require.NoError(t, err)
	rec := v.(*sw.Record)
	id, _ := rec.Get("id")
	assert.Equal(t, int64(7), id)
}

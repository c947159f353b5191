package schemawire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sw "github.com/reoring/schemawire"
)

func userRecord() *sw.RecordType {
	return sw.NewRecord("",
		sw.Field{Name: "id", Type: sw.Integer()},
		sw.Field{Name: "login", Type: sw.String()},
		sw.Field{Name: "name", Type: sw.String(), Presence: sw.Optional},
	)
}

func TestRegistry_SelfReference(t *testing.T) {
	b := sw.NewBuilder()
	b.Register("node", sw.NewRecord("",
		sw.Field{Name: "value", Type: sw.Integer()},
		sw.Field{Name: "next", Type: sw.Ref("node"), Presence: sw.OptionalNullable},
	))
	reg, err := b.Build()
	require.NoError(t, err)

	v, err := reg.Decode([]byte(`{"value":1,"next":{"value":2,"next":{"value":3,"next":null}}}`), "node")
	require.NoError(t, err)
	second, _ := v.(*sw.Record).Get("next")
	third, _ := second.(*sw.Record).Get("next")
	assert.True(t, third.(*sw.Record).IsNull("next"))
}

func TestRegistry_MutualRecursionAndForwardRefs(t *testing.T) {
	b := sw.NewBuilder()
	b.Register("repository", sw.NewRecord("",
		sw.Field{Name: "owner", Type: sw.Ref("user")},
		sw.Field{Name: "template_repository", Type: sw.Ref("repository"), Presence: sw.OptionalNullable},
	))
	b.Register("user", sw.NewRecord("",
		sw.Field{Name: "login", Type: sw.String()},
		sw.Field{Name: "repos", Type: sw.ArrayOf(sw.Ref("repository")), Presence: sw.Optional},
	))
	reg, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"repository", "user"}, reg.Names())
}

func TestRegistry_UnknownTypeReference(t *testing.T) {
	b := sw.NewBuilder()
	b.Register("repository", sw.NewRecord("",
		sw.Field{Name: "license", Type: sw.Ref("license"), Presence: sw.Nullable},
	))
	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, sw.ErrUnknownTypeReference)
	iss, _ := sw.AsIssues(err)
	assert.Equal(t, "repository.license", iss.First().Path)
	assert.Contains(t, iss.First().Message, "license")
}

func TestRegistry_DuplicateTypeName(t *testing.T) {
	b := sw.NewBuilder()
	b.Register("user", userRecord())
	b.Register("user", userRecord())
	_, err := b.Build()
	require.NoError(t, err, "structurally equal bodies are idempotent")

	b.Register("user", sw.NewRecord("", sw.Field{Name: "id", Type: sw.String()}))
	_, err = b.Build()
	assert.ErrorIs(t, err, sw.ErrDuplicateTypeName)
}

func TestRegistry_CyclicUnion(t *testing.T) {
	b := sw.NewBuilder()
	b.Register("a", sw.OneOf(sw.Ref("b"), sw.String()))
	b.Register("b", sw.OneOf(sw.Integer(), sw.Ref("a")))
	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, sw.ErrInvalidDefinition)
	assert.Contains(t, err.(sw.Issues).Codes(), sw.CodeCyclicUnion)
}

func TestRegistry_UnionThroughRecordIsGuarded(t *testing.T) {
	b := sw.NewBuilder()
	b.Register("tree", sw.OneOf(sw.String(), sw.ArrayOf(sw.Ref("tree"))))
	reg, err := b.Build()
	require.NoError(t, err)

	v, err := reg.Decode([]byte(`["a",["b",["c"]]]`), "tree")
	require.NoError(t, err)
	assert.Equal(t, 1, v.(sw.Variant).Index)
}

func TestRegistry_InvalidDefinitions(t *testing.T) {
	cases := map[string]func(b *sw.Builder){
		"empty name":     func(b *sw.Builder) { b.Register("", userRecord()) },
		"nil body":       func(b *sw.Builder) { b.Register("x", nil) },
		"bare ref":       func(b *sw.Builder) { b.Register("x", sw.Ref("y")) },
		"name mismatch":  func(b *sw.Builder) { b.Register("x", sw.NewRecord("y")) },
		"empty union":    func(b *sw.Builder) { b.Register("x", sw.OneOf()) },
		"dup field":      func(b *sw.Builder) { b.Register("x", sw.NewRecord("", sw.Field{Name: "a", Type: sw.String()}, sw.Field{Name: "a", Type: sw.String()})) },
		"nil field type": func(b *sw.Builder) { b.Register("x", sw.NewRecord("", sw.Field{Name: "a"})) },
		"nil elem":       func(b *sw.Builder) { b.Register("x", sw.NewRecord("", sw.Field{Name: "a", Type: sw.ArrayOf(nil)})) },
	}
	for name, reg := range cases {
		t.Run(name, func(t *testing.T) {
			b := sw.NewBuilder()
			reg(b)
			_, err := b.Build()
			assert.ErrorIs(t, err, sw.ErrInvalidDefinition)
		})
	}
}

func TestRegistry_MustBuildPanics(t *testing.T) {
	b := sw.NewBuilder()
	b.Register("x", sw.NewRecord("", sw.Field{Name: "y", Type: sw.Ref("missing")}))
	assert.Panics(t, func() { b.MustBuild() })
}

func TestRegistry_Include(t *testing.T) {
	base := sw.NewBuilder()
	base.Register("user", userRecord())
	reg := base.MustBuild()

	ext := sw.NewBuilder().Include(reg)
	ext.Register("team", sw.NewRecord("", sw.Field{Name: "members", Type: sw.ArrayOf(sw.Ref("user"))}))
	all, err := ext.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, all.Len())

	rt, err := all.Record("user")
	require.NoError(t, err)
	assert.Equal(t, "user", rt.Name)

	_, err = all.Resolve("nope")
	assert.ErrorIs(t, err, sw.ErrUnknownTypeReference)
}

func TestRegistry_NilRegistryIsProgrammingError(t *testing.T) {
	var reg *sw.Registry
	assert.Panics(t, func() { _, _ = reg.Decode([]byte(`{}`), "user") })
}

func TestRegistry_OwnsRegisteredBodies(t *testing.T) {
	body := userRecord()
	tags := sw.ArrayOf(sw.String())
	body.Fields = append(body.Fields, sw.Field{Name: "tags", Type: tags, Presence: sw.Optional})
	reg := sw.NewBuilder().Register("user", body).MustBuild()

	// later edits to the caller's descriptors do not reach the registry
	body.Fields[1].Presence = sw.OptionalNullable
	body.Fields = append(body.Fields[:1], body.Fields[2:]...)
	tags.Elem = sw.Integer()
	body.Name = "renamed"

	rt, err := reg.Record("user")
	require.NoError(t, err)
	assert.Equal(t, "user", rt.Name)
	assert.Equal(t, []string{"id", "login", "name", "tags"}, rt.FieldNames())
	login, ok := rt.Field("login")
	require.True(t, ok)
	assert.Equal(t, sw.Required, login.Presence)

	_, err = reg.Decode([]byte(`{"id":1,"login":null}`), "user")
	assert.ErrorIs(t, err, sw.ErrPresenceViolation)
	_, err = reg.Decode([]byte(`{"id":1,"login":"octocat","tags":["a"]}`), "user")
	assert.NoError(t, err)
}

package wire_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemawire/wire"
)

type label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type issueLabel = wire.OneOf2[string, label]

func TestOneOf2_PicksFirstMatching(t *testing.T) {
	var labels []issueLabel
	require.NoError(t, json.Unmarshal([]byte(`["bug",{"id":1,"name":"bug","color":"f00"}]`), &labels))
	require.Len(t, labels, 2)

	s, ok := labels[0].A()
	require.True(t, ok)
	assert.Equal(t, "bug", s)
	assert.Equal(t, 0, labels[0].Index())

	l, ok := labels[1].B()
	require.True(t, ok)
	assert.Equal(t, label{ID: 1, Name: "bug", Color: "f00"}, l)
	assert.Equal(t, 1, labels[1].Index())
}

type labelRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type account struct {
	Login string `json:"login"`
}

func TestOneOf2_TieBreakDeclarationOrder(t *testing.T) {
	// both shapes accept a full label object
	in := []byte(`{"id":3,"name":"bug","color":"f00"}`)
	for range 5 {
		var u wire.OneOf2[label, labelRef]
		require.NoError(t, json.Unmarshal(in, &u))
		assert.Equal(t, 0, u.Index())

		var r wire.OneOf2[labelRef, label]
		require.NoError(t, json.Unmarshal(in, &r))
		assert.Equal(t, 0, r.Index())
	}
}

func TestOneOf2_RequiredKeysDecideMatch(t *testing.T) {
	var il issueLabel
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"unrelated":true}`), &il), wire.ErrNoAlternative)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"id":3}`), &il), wire.ErrMissingKey)

	var u wire.OneOf2[label, account]
	require.NoError(t, json.Unmarshal([]byte(`{"login":"octocat"}`), &u))
	assert.Equal(t, 1, u.Index())
	got, ok := u.B()
	require.True(t, ok)
	assert.Equal(t, "octocat", got.Login)

	// a narrower shape declared first wins over the wider one
	var r wire.OneOf2[labelRef, label]
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"bug"}`), &r))
	assert.Equal(t, 0, r.Index())
	var w wire.OneOf2[label, labelRef]
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"bug"}`), &w))
	assert.Equal(t, 1, w.Index())
}

func TestOneOf2_Errors(t *testing.T) {
	var u issueLabel
	assert.ErrorIs(t, json.Unmarshal([]byte(`42`), &u), wire.ErrNoAlternative)
	assert.ErrorIs(t, json.Unmarshal([]byte(`null`), &u), wire.ErrNoAlternative)

	_, err := json.Marshal(issueLabel{})
	assert.ErrorIs(t, err, wire.ErrNoAlternative)
}

func TestOneOf2_MarshalTagNotSerialized(t *testing.T) {
	b, err := json.Marshal([]issueLabel{wire.First[string, label]("bug"), wire.Second[string](label{ID: 1, Name: "bug", Color: "f00"})})
	require.NoError(t, err)
	assert.JSONEq(t, `["bug",{"id":1,"name":"bug","color":"f00"}]`, string(b))
}

func TestEmpty(t *testing.T) {
	var e wire.Empty
	require.NoError(t, json.Unmarshal([]byte(`{"anything":[1,2,3]}`), &e))
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &e))
	assert.Error(t, json.Unmarshal([]byte(`null`), &e))

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestTimestamp(t *testing.T) {
	ts := wire.TimestampOf(time.Date(2011, 1, 26, 19, 1, 12, 500, time.FixedZone("x", 3600)))
	assert.Equal(t, wire.Timestamp("2011-01-26T18:01:12Z"), ts)
	tm, err := ts.Time()
	require.NoError(t, err)
	assert.Equal(t, 2011, tm.Year())
}

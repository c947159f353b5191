package codec_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/codec"
	"github.com/reoring/schemawire/github"
	"github.com/reoring/schemawire/wire"
)

func TestTyped_UnknownName(t *testing.T) {
	_, err := codec.Typed[github.LicenseSimple](github.Registry(), "no-such-type")
	require.Error(t, err)
	iss, ok := sw.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, sw.CodeUnknownTypeReference, iss[0].Code)

	assert.Panics(t, func() { codec.MustTyped[github.LicenseSimple](github.Registry(), "no-such-type") })
}

func TestCodec_DecodeEncode(t *testing.T) {
	c := codec.MustTyped[github.LicenseSimple](github.Registry(), github.NameLicenseSimple)
	assert.Equal(t, github.NameLicenseSimple, c.TypeName())

	lic, err := c.Decode([]byte(`{"node_id":"n","spdx_id":"MIT","url":null,"name":"MIT License","key":"mit","extra":true}`))
	require.NoError(t, err)
	assert.Equal(t, "mit", lic.Key)
	assert.True(t, lic.URL.IsNull())
	spdx, ok := lic.SpdxID.Get()
	require.True(t, ok)
	assert.Equal(t, "MIT", spdx)
	_, ok = lic.HTMLURL.Get()
	assert.False(t, ok)

	out, err := c.Encode(lic)
	require.NoError(t, err)
	assert.Equal(t, `{"key":"mit","name":"MIT License","url":null,"spdx_id":"MIT","node_id":"n"}`, string(out))

	_, dv, err := c.DecodeDynamic(out)
	require.NoError(t, err)
	rec, ok := dv.(*sw.Record)
	require.True(t, ok)
	assert.True(t, rec.IsNull("url"))
	assert.Equal(t, sw.StateUnset, rec.State("html_url"))
}

func TestCodec_DecodeRejectsBeforeUnmarshal(t *testing.T) {
	c := codec.MustTyped[github.LicenseSimple](github.Registry(), github.NameLicenseSimple)
	_, err := c.Decode([]byte(`{"key":"mit","name":"MIT","url":null,"spdx_id":null}`))
	require.Error(t, err)
	iss, ok := sw.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, sw.CodeRequired, iss[0].Code)
	assert.Equal(t, "license-simple.node_id", iss[0].Path)

	out, err := c.Encode(github.LicenseSimple{Key: "k", Name: "n", URL: wire.Null[string](), SpdxID: wire.Null[string]()})
	require.NoError(t, err)
	assert.Equal(t, `{"key":"k","name":"n","url":null,"spdx_id":null,"node_id":""}`, string(out))
}

// Registry decode accepts any integral literal; the typed layer then needs
// it to fit the Go field, and encoding/json rejects exponent forms for int64.
func TestCodec_ExponentIntegerRejectedByStruct(t *testing.T) {
	raw := []byte(`{"id":1e3,"node_id":"n","url":"u","name":"bug","description":null,"color":"f00","default":false}`)

	dv, err := github.Registry().Decode(raw, github.NameLabel)
	require.NoError(t, err)
	id, _ := dv.(*sw.Record).Get("id")
	assert.Equal(t, int64(1000), id)

	c := codec.MustTyped[github.Label](github.Registry(), github.NameLabel)
	_, err = c.Decode(raw)
	require.Error(t, err)
	_, isIssues := sw.AsIssues(err)
	assert.False(t, isIssues, "the registry accepted the payload")
	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)

	// the canonical re-encoding is plain and decodes into the struct
	canon, err := github.Registry().Encode(dv, github.NameLabel)
	require.NoError(t, err)
	lbl, err := c.Decode(canon)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), lbl.ID)
}

type driftedLicense struct {
	Key     string                `json:"key"`
	Name    wire.Optional[string] `json:"name,omitzero"`
	URL     string                `json:"url"`
	SpdxID  wire.Nullable[string] `json:"spdx_id"`
	NodeID  string                `json:"node_id"`
	HTMLURL wire.Optional[string] `json:"html_url"`
	Extra   string                `json:"extra"`
	Skipped string                `json:"-"`
}

func TestConform(t *testing.T) {
	require.NoError(t, codec.Conform[github.LicenseSimple](github.Registry(), github.NameLicenseSimple))
	require.NoError(t, codec.Conform[*github.LicenseSimple](github.Registry(), github.NameLicenseSimple))

	err := codec.Conform[driftedLicense](github.Registry(), github.NameLicenseSimple)
	require.Error(t, err)
	iss, ok := sw.AsIssues(err)
	require.True(t, ok)
	paths := map[string]string{}
	for _, it := range iss {
		assert.Equal(t, sw.CodeInvalidDefinition, it.Code)
		paths[it.Path] = it.Message
	}
	assert.Contains(t, paths["license-simple.name"], "required presence needs plain")
	assert.Contains(t, paths["license-simple.url"], "nullable presence needs Nullable")
	assert.Contains(t, paths["license-simple.html_url"], "lacks omitzero")
	assert.Contains(t, paths, "license-simple.extra")
	assert.Len(t, iss, 4)

	assert.Error(t, codec.Conform[string](github.Registry(), github.NameLicenseSimple))
	assert.Error(t, codec.Conform[github.LicenseSimple](github.Registry(), github.NameIssueLabel), "not a record")
}

package github_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/codec"
	"github.com/reoring/schemawire/github"
)

func TestTypes_ConformToRegistry(t *testing.T) {
	assert.NoError(t, github.CheckBindings(github.Registry()))
	assert.Len(t, github.BoundNames(), 15)
}

func TestTypes_ConformDetectsDrift(t *testing.T) {
	// a registry where login became nullable no longer matches SimpleUser
	b := sw.NewBuilder()
	github.Register(b)
	reg := b.MustBuild()
	drifted := sw.NewBuilder().Register(github.NameSimpleUser, sw.NewRecord("",
		sw.Field{Name: "login", Type: sw.String(), Presence: sw.Nullable},
	)).MustBuild()

	assert.NoError(t, codec.Conform[github.SimpleUser](reg, github.NameSimpleUser))
	assert.Error(t, codec.Conform[github.SimpleUser](drifted, github.NameSimpleUser))
	assert.Error(t, github.CheckBindings(drifted))
}

func TestTypes_RepositoryCodec(t *testing.T) {
	c := codec.MustTyped[github.Repository](github.Registry(), github.NameRepository)
	repo, err := c.Decode(fixture(t, "repository.json"))
	require.NoError(t, err)

	assert.Equal(t, "octocat/Hello-World", repo.FullName)
	tmpl, ok := repo.TemplateRepository.Get()
	require.True(t, ok)
	assert.True(t, tmpl.TemplateRepository.IsNull())
	assert.True(t, tmpl.License.IsNull())
	lic, ok := repo.License.Get()
	require.True(t, ok)
	assert.Equal(t, "mit", lic.Key)

	out, err := c.Encode(repo)
	require.NoError(t, err)
	again, err := c.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, repo, again)
}

func TestTypes_IssueLabels(t *testing.T) {
	c := codec.MustTyped[github.Issue](github.Registry(), github.NameIssue)
	issue, err := c.Decode(fixture(t, "issue.json"))
	require.NoError(t, err)
	require.Len(t, issue.Labels, 2)

	name, ok := issue.Labels[0].A()
	require.True(t, ok)
	assert.Equal(t, "bug", name)
	full, ok := issue.Labels[1].B()
	require.True(t, ok)
	assert.Equal(t, "a2eeef", full.Color)
	assert.True(t, issue.Assignee.IsNull())
	assert.True(t, issue.Assignees.IsZero())
}

func TestTypes_DeploymentCodec(t *testing.T) {
	c := codec.MustTyped[github.Deployment](github.Registry(), github.NameDeployment)
	d, err := c.Decode(fixture(t, "deployment.json"))
	require.NoError(t, err)

	payload, ok := d.Payload.A()
	require.True(t, ok)
	assert.Equal(t, "migrate", payload["deploy"])

	app, ok := d.PerformedViaGithubApp.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"push", "pull_request"}, app.Events)

	out, err := c.Encode(d)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "single_file")
}

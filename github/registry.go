package github

import (
	"sync"

	sw "github.com/reoring/schemawire"
	g "github.com/reoring/schemawire/dsl"
)

// Registered type names.
const (
	NameSimpleUser             = "simple-user"
	NameNullableSimpleUser     = "nullable-simple-user"
	NameLicenseSimple          = "license-simple"
	NameNullableLicenseSimple  = "nullable-license-simple"
	NameRepositoryPermissions  = "repository-permissions"
	NameCodeOfConduct          = "code-of-conduct"
	NameRepository             = "repository"
	NameMinimalRepository      = "minimal-repository"
	NameLabel                  = "label"
	NameIssueLabel             = "issue-label"
	NameIssue                  = "issue"
	NameDeploymentPayload      = "deployment-payload"
	NameDeployment             = "deployment"
	NameIntegration            = "integration"
	NameIntegrationPermissions = "integration-permissions"
	NameEmptyObject            = "empty-object"
	NameLink                   = "link"
	NameLinkWithType           = "link-with-type"
	NameFeed                   = "feed"
	NameScimMember             = "scim-member"
)

// Registry returns the process-wide registry of GitHub shapes. It is built
// on first use and shared read-only afterwards.
var Registry = sync.OnceValue(func() *sw.Registry {
	return Register(sw.NewBuilder()).MustBuild()
})

// Register declares every GitHub shape on b, so callers can extend the set
// before building.
func Register(b *sw.Builder) *sw.Builder {
	str, num, flag, ts := sw.String(), sw.Integer(), sw.Boolean(), sw.Timestamp()

	simpleUser := g.Record(NameSimpleUser).Fields(
		g.Req("login", str),
		g.Req("id", num),
		g.Req("node_id", str),
		g.Req("avatar_url", str),
		g.Null("gravatar_id", str),
		g.Req("url", str),
		g.Req("html_url", str),
		g.Req("type", str),
		g.Req("site_admin", flag),
		g.OptNull("name", str),
		g.OptNull("email", str),
		g.Opt("starred_at", str),
		g.Opt("user_view_type", str),
	).MustBuild()
	b.Register(NameSimpleUser, simpleUser)
	b.Register(NameNullableSimpleUser, g.View(simpleUser).Named(NameNullableSimpleUser).MustBuild())

	license := g.Record(NameLicenseSimple).Fields(
		g.Req("key", str),
		g.Req("name", str),
		g.Null("url", str),
		g.Null("spdx_id", str),
		g.Req("node_id", str),
		g.Opt("html_url", str),
	).MustBuild()
	b.Register(NameLicenseSimple, license)
	b.Register(NameNullableLicenseSimple, g.View(license).Named(NameNullableLicenseSimple).MustBuild())

	b.Register(NameRepositoryPermissions, g.Record(NameRepositoryPermissions).Fields(
		g.Req("admin", flag),
		g.Opt("maintain", flag),
		g.Req("push", flag),
		g.Opt("triage", flag),
		g.Req("pull", flag),
	).MustBuild())

	b.Register(NameCodeOfConduct, g.Record(NameCodeOfConduct).Fields(
		g.Req("key", str),
		g.Req("name", str),
		g.Req("url", str),
		g.Opt("body", str),
		g.Null("html_url", str),
	).MustBuild())

	featureStatus := func() *sw.RecordType { return g.Object().Fields(g.Opt("status", str)).MustBuild() }
	repo := g.Record(NameRepository).Fields(
		g.Req("id", num),
		g.Req("node_id", str),
		g.Req("name", str),
		g.Req("full_name", str),
		g.Null("license", sw.Ref(NameNullableLicenseSimple)),
		g.Opt("permissions", sw.Ref(NameRepositoryPermissions)),
		g.Req("owner", sw.Ref(NameSimpleUser)),
		g.Req("private", flag),
		g.Req("html_url", str),
		g.Null("description", str),
		g.Req("fork", flag),
		g.Req("url", str),
		g.Null("homepage", str),
		g.Null("language", str),
		g.Req("forks_count", num),
		g.Req("stargazers_count", num),
		g.Req("watchers_count", num),
		g.Req("size", num),
		g.Req("default_branch", str),
		g.Req("open_issues_count", num),
		g.Opt("is_template", flag),
		g.Opt("topics", sw.ArrayOf(str)),
		g.Req("has_issues", flag),
		g.Req("archived", flag),
		g.Req("disabled", flag),
		g.Opt("visibility", str),
		g.Null("pushed_at", ts),
		g.Null("created_at", ts),
		g.Null("updated_at", ts),
		g.OptNull("template_repository", sw.Ref(NameRepository)),
		g.Opt("temp_clone_token", str),
		g.Opt("subscribers_count", num),
		g.Opt("network_count", num),
		g.Opt("code_of_conduct", sw.Ref(NameCodeOfConduct)),
		g.OptNull("security_and_analysis", g.Object().Fields(
			g.Opt("advanced_security", featureStatus()),
			g.Opt("secret_scanning", featureStatus()),
		).MustBuild()),
	).MustBuild()
	b.Register(NameRepository, repo)

	b.Register(NameMinimalRepository, g.View(repo).Named(NameMinimalRepository).
		Pick("id", "node_id", "name", "full_name", "owner", "private", "html_url",
			"description", "fork", "url", "language", "forks_count", "stargazers_count",
			"topics", "visibility", "pushed_at", "created_at", "updated_at",
			"permissions", "license", "code_of_conduct").
		Presence(sw.Optional, "forks_count", "stargazers_count").
		Presence(sw.OptionalNullable, "language", "pushed_at", "created_at", "updated_at", "license").
		MustBuild())

	b.Register(NameLabel, g.Record(NameLabel).Fields(
		g.Req("id", num),
		g.Req("node_id", str),
		g.Req("url", str),
		g.Req("name", str),
		g.Null("description", str),
		g.Req("color", str),
		g.Req("default", flag),
	).MustBuild())
	// a bare name is declared before the full record: the two never overlap
	b.Register(NameIssueLabel, g.NamedUnion(NameIssueLabel, str, sw.Ref(NameLabel)))

	b.Register(NameIssue, g.Record(NameIssue).Fields(
		g.Req("id", num),
		g.Req("node_id", str),
		g.Req("url", str),
		g.Req("html_url", str),
		g.Req("number", num),
		g.Req("state", str),
		g.OptNull("state_reason", str),
		g.Req("title", str),
		g.OptNull("body", str),
		g.Null("user", sw.Ref(NameNullableSimpleUser)),
		g.Req("labels", sw.ArrayOf(sw.Ref(NameIssueLabel))),
		g.Null("assignee", sw.Ref(NameNullableSimpleUser)),
		g.OptNull("assignees", sw.ArrayOf(sw.Ref(NameSimpleUser))),
		g.Req("locked", flag),
		g.Req("comments", num),
		g.Opt("pull_request", g.Object().Fields(
			g.OptNull("merged_at", ts),
			g.Null("diff_url", str),
			g.Null("html_url", str),
			g.Null("patch_url", str),
			g.Null("url", str),
		).MustBuild()),
		g.Null("closed_at", ts),
		g.Req("created_at", ts),
		g.Req("updated_at", ts),
		g.Opt("repository", sw.Ref(NameRepository)),
		g.Req("author_association", str),
		g.OptNull("performed_via_github_app", sw.Ref(NameIntegration)),
	).MustBuild())

	b.Register(NameDeploymentPayload, g.NamedUnion(NameDeploymentPayload, sw.FreeForm(), str))
	b.Register(NameDeployment, g.Record(NameDeployment).Fields(
		g.Req("url", str),
		g.Req("id", num),
		g.Req("node_id", str),
		g.Req("sha", str),
		g.Req("ref", str),
		g.Req("task", str),
		g.Req("payload", sw.Ref(NameDeploymentPayload)),
		g.Opt("original_environment", str),
		g.Req("environment", str),
		g.Null("description", str),
		g.Null("creator", sw.Ref(NameNullableSimpleUser)),
		g.Req("created_at", ts),
		g.Req("updated_at", ts),
		g.Req("statuses_url", str),
		g.Req("repository_url", str),
		g.Opt("transient_environment", flag),
		g.Opt("production_environment", flag),
		g.OptNull("performed_via_github_app", sw.Ref(NameIntegration)),
	).MustBuild())

	b.Register(NameIntegrationPermissions, g.Record(NameIntegrationPermissions).Fields(
		g.Opt("issues", str),
		g.Opt("checks", str),
		g.Opt("metadata", str),
		g.Opt("contents", str),
		g.Opt("deployments", str),
	).MustBuild())
	b.Register(NameIntegration, g.Record(NameIntegration).Fields(
		g.Req("id", num),
		g.Opt("slug", str),
		g.Req("node_id", str),
		g.Opt("client_id", str),
		g.Null("owner", sw.Ref(NameNullableSimpleUser)),
		g.Req("name", str),
		g.Null("description", str),
		g.Req("external_url", str),
		g.Req("html_url", str),
		g.Req("created_at", ts),
		g.Req("updated_at", ts),
		g.Req("permissions", sw.Ref(NameIntegrationPermissions)),
		g.Req("events", sw.ArrayOf(str)),
		g.Opt("installations_count", num),
	).MustBuild())

	b.Register(NameEmptyObject, sw.Empty())

	b.Register(NameLink, g.Record(NameLink).Fields(g.Req("href", str)).MustBuild())
	b.Register(NameLinkWithType, g.Record(NameLinkWithType).Fields(
		g.Req("href", str),
		g.Req("type", str),
	).MustBuild())
	b.Register(NameFeed, g.Record(NameFeed).Fields(
		g.Req("timeline_url", str),
		g.Req("user_url", str),
		g.Opt("current_user_url", str),
		g.Opt("security_advisories_url", str),
		g.Req("_links", g.Object().Fields(
			g.Req("timeline", sw.Ref(NameLinkWithType)),
			g.Req("user", sw.Ref(NameLinkWithType)),
			g.Opt("security_advisories", sw.Ref(NameLinkWithType)),
		).MustBuild()),
	).MustBuild())

	b.Register(NameScimMember, g.Record(NameScimMember).Fields(
		g.Req("value", str),
		g.Req("$ref", str),
		g.Opt("display", str),
	).MustBuild())

	return b
}

package github

import "github.com/reoring/schemawire/wire"

// SimpleUser mirrors simple-user and nullable-simple-user.
type SimpleUser struct {
	Login        string                        `json:"login"`
	ID           int64                         `json:"id"`
	NodeID       string                        `json:"node_id"`
	AvatarURL    string                        `json:"avatar_url"`
	GravatarID   wire.Nullable[string]         `json:"gravatar_id"`
	URL          string                        `json:"url"`
	HTMLURL      string                        `json:"html_url"`
	Type         string                        `json:"type"`
	SiteAdmin    bool                          `json:"site_admin"`
	Name         wire.OptionalNullable[string] `json:"name,omitzero"`
	Email        wire.OptionalNullable[string] `json:"email,omitzero"`
	StarredAt    wire.Optional[string]         `json:"starred_at,omitzero"`
	UserViewType wire.Optional[string]         `json:"user_view_type,omitzero"`
}

// LicenseSimple mirrors license-simple and nullable-license-simple.
type LicenseSimple struct {
	Key     string                `json:"key"`
	Name    string                `json:"name"`
	URL     wire.Nullable[string] `json:"url"`
	SpdxID  wire.Nullable[string] `json:"spdx_id"`
	NodeID  string                `json:"node_id"`
	HTMLURL wire.Optional[string] `json:"html_url,omitzero"`
}

type RepositoryPermissions struct {
	Admin    bool                `json:"admin"`
	Maintain wire.Optional[bool] `json:"maintain,omitzero"`
	Push     bool                `json:"push"`
	Triage   wire.Optional[bool] `json:"triage,omitzero"`
	Pull     bool                `json:"pull"`
}

type CodeOfConduct struct {
	Key     string                `json:"key"`
	Name    string                `json:"name"`
	URL     string                `json:"url"`
	Body    wire.Optional[string] `json:"body,omitzero"`
	HTMLURL wire.Nullable[string] `json:"html_url"`
}

type FeatureStatus struct {
	Status wire.Optional[string] `json:"status,omitzero"`
}

type SecurityAndAnalysis struct {
	AdvancedSecurity wire.Optional[FeatureStatus] `json:"advanced_security,omitzero"`
	SecretScanning   wire.Optional[FeatureStatus] `json:"secret_scanning,omitzero"`
}

// Repository mirrors repository. TemplateRepository points back at the
// same shape.
type Repository struct {
	ID                  int64                                      `json:"id"`
	NodeID              string                                     `json:"node_id"`
	Name                string                                     `json:"name"`
	FullName            string                                     `json:"full_name"`
	License             wire.Nullable[LicenseSimple]               `json:"license"`
	Permissions         wire.Optional[RepositoryPermissions]       `json:"permissions,omitzero"`
	Owner               SimpleUser                                 `json:"owner"`
	Private             bool                                       `json:"private"`
	HTMLURL             string                                     `json:"html_url"`
	Description         wire.Nullable[string]                      `json:"description"`
	Fork                bool                                       `json:"fork"`
	URL                 string                                     `json:"url"`
	Homepage            wire.Nullable[string]                      `json:"homepage"`
	Language            wire.Nullable[string]                      `json:"language"`
	ForksCount          int64                                      `json:"forks_count"`
	StargazersCount     int64                                      `json:"stargazers_count"`
	WatchersCount       int64                                      `json:"watchers_count"`
	Size                int64                                      `json:"size"`
	DefaultBranch       string                                     `json:"default_branch"`
	OpenIssuesCount     int64                                      `json:"open_issues_count"`
	IsTemplate          wire.Optional[bool]                        `json:"is_template,omitzero"`
	Topics              wire.Optional[[]string]                    `json:"topics,omitzero"`
	HasIssues           bool                                       `json:"has_issues"`
	Archived            bool                                       `json:"archived"`
	Disabled            bool                                       `json:"disabled"`
	Visibility          wire.Optional[string]                      `json:"visibility,omitzero"`
	PushedAt            wire.Nullable[wire.Timestamp]              `json:"pushed_at"`
	CreatedAt           wire.Nullable[wire.Timestamp]              `json:"created_at"`
	UpdatedAt           wire.Nullable[wire.Timestamp]              `json:"updated_at"`
	TemplateRepository  wire.OptionalNullable[*Repository]         `json:"template_repository,omitzero"`
	TempCloneToken      wire.Optional[string]                      `json:"temp_clone_token,omitzero"`
	SubscribersCount    wire.Optional[int64]                       `json:"subscribers_count,omitzero"`
	NetworkCount        wire.Optional[int64]                       `json:"network_count,omitzero"`
	CodeOfConduct       wire.Optional[CodeOfConduct]               `json:"code_of_conduct,omitzero"`
	SecurityAndAnalysis wire.OptionalNullable[SecurityAndAnalysis] `json:"security_and_analysis,omitzero"`
}

type MinimalRepository struct {
	ID              int64                                 `json:"id"`
	NodeID          string                                `json:"node_id"`
	Name            string                                `json:"name"`
	FullName        string                                `json:"full_name"`
	Owner           SimpleUser                            `json:"owner"`
	Private         bool                                  `json:"private"`
	HTMLURL         string                                `json:"html_url"`
	Description     wire.Nullable[string]                 `json:"description"`
	Fork            bool                                  `json:"fork"`
	URL             string                                `json:"url"`
	Language        wire.OptionalNullable[string]         `json:"language,omitzero"`
	ForksCount      wire.Optional[int64]                  `json:"forks_count,omitzero"`
	StargazersCount wire.Optional[int64]                  `json:"stargazers_count,omitzero"`
	Topics          wire.Optional[[]string]               `json:"topics,omitzero"`
	Visibility      wire.Optional[string]                 `json:"visibility,omitzero"`
	PushedAt        wire.OptionalNullable[wire.Timestamp] `json:"pushed_at,omitzero"`
	CreatedAt       wire.OptionalNullable[wire.Timestamp] `json:"created_at,omitzero"`
	UpdatedAt       wire.OptionalNullable[wire.Timestamp] `json:"updated_at,omitzero"`
	Permissions     wire.Optional[RepositoryPermissions]  `json:"permissions,omitzero"`
	License         wire.OptionalNullable[LicenseSimple]  `json:"license,omitzero"`
	CodeOfConduct   wire.Optional[CodeOfConduct]          `json:"code_of_conduct,omitzero"`
}

type Label struct {
	ID          int64                 `json:"id"`
	NodeID      string                `json:"node_id"`
	URL         string                `json:"url"`
	Name        string                `json:"name"`
	Description wire.Nullable[string] `json:"description"`
	Color       string                `json:"color"`
	Default     bool                  `json:"default"`
}

// IssueLabel is a bare label name or a full label.
type IssueLabel = wire.OneOf2[string, Label]

type IssuePullRequest struct {
	MergedAt wire.OptionalNullable[wire.Timestamp] `json:"merged_at,omitzero"`
	DiffURL  wire.Nullable[string]                 `json:"diff_url"`
	HTMLURL  wire.Nullable[string]                 `json:"html_url"`
	PatchURL wire.Nullable[string]                 `json:"patch_url"`
	URL      wire.Nullable[string]                 `json:"url"`
}

type Issue struct {
	ID                    int64                               `json:"id"`
	NodeID                string                              `json:"node_id"`
	URL                   string                              `json:"url"`
	HTMLURL               string                              `json:"html_url"`
	Number                int64                               `json:"number"`
	State                 string                              `json:"state"`
	StateReason           wire.OptionalNullable[string]       `json:"state_reason,omitzero"`
	Title                 string                              `json:"title"`
	Body                  wire.OptionalNullable[string]       `json:"body,omitzero"`
	User                  wire.Nullable[SimpleUser]           `json:"user"`
	Labels                []IssueLabel                        `json:"labels"`
	Assignee              wire.Nullable[SimpleUser]           `json:"assignee"`
	Assignees             wire.OptionalNullable[[]SimpleUser] `json:"assignees,omitzero"`
	Locked                bool                                `json:"locked"`
	Comments              int64                               `json:"comments"`
	PullRequest           wire.Optional[IssuePullRequest]     `json:"pull_request,omitzero"`
	ClosedAt              wire.Nullable[wire.Timestamp]       `json:"closed_at"`
	CreatedAt             wire.Timestamp                      `json:"created_at"`
	UpdatedAt             wire.Timestamp                      `json:"updated_at"`
	Repository            wire.Optional[Repository]           `json:"repository,omitzero"`
	AuthorAssociation     string                              `json:"author_association"`
	PerformedViaGithubApp wire.OptionalNullable[Integration]  `json:"performed_via_github_app,omitzero"`
}

// DeploymentPayload is a free-form object or a string.
type DeploymentPayload = wire.OneOf2[map[string]any, string]

type Deployment struct {
	URL                   string                             `json:"url"`
	ID                    int64                              `json:"id"`
	NodeID                string                             `json:"node_id"`
	Sha                   string                             `json:"sha"`
	Ref                   string                             `json:"ref"`
	Task                  string                             `json:"task"`
	Payload               DeploymentPayload                  `json:"payload"`
	OriginalEnvironment   wire.Optional[string]              `json:"original_environment,omitzero"`
	Environment           string                             `json:"environment"`
	Description           wire.Nullable[string]              `json:"description"`
	Creator               wire.Nullable[SimpleUser]          `json:"creator"`
	CreatedAt             wire.Timestamp                     `json:"created_at"`
	UpdatedAt             wire.Timestamp                     `json:"updated_at"`
	StatusesURL           string                             `json:"statuses_url"`
	RepositoryURL         string                             `json:"repository_url"`
	TransientEnvironment  wire.Optional[bool]                `json:"transient_environment,omitzero"`
	ProductionEnvironment wire.Optional[bool]                `json:"production_environment,omitzero"`
	PerformedViaGithubApp wire.OptionalNullable[Integration] `json:"performed_via_github_app,omitzero"`
}

type IntegrationPermissions struct {
	Issues      wire.Optional[string] `json:"issues,omitzero"`
	Checks      wire.Optional[string] `json:"checks,omitzero"`
	Metadata    wire.Optional[string] `json:"metadata,omitzero"`
	Contents    wire.Optional[string] `json:"contents,omitzero"`
	Deployments wire.Optional[string] `json:"deployments,omitzero"`
}

// Integration mirrors integration (a GitHub App).
type Integration struct {
	ID                 int64                     `json:"id"`
	Slug               wire.Optional[string]     `json:"slug,omitzero"`
	NodeID             string                    `json:"node_id"`
	ClientID           wire.Optional[string]     `json:"client_id,omitzero"`
	Owner              wire.Nullable[SimpleUser] `json:"owner"`
	Name               string                    `json:"name"`
	Description        wire.Nullable[string]     `json:"description"`
	ExternalURL        string                    `json:"external_url"`
	HTMLURL            string                    `json:"html_url"`
	CreatedAt          wire.Timestamp            `json:"created_at"`
	UpdatedAt          wire.Timestamp            `json:"updated_at"`
	Permissions        IntegrationPermissions    `json:"permissions"`
	Events             []string                  `json:"events"`
	InstallationsCount wire.Optional[int64]      `json:"installations_count,omitzero"`
}

type LinkWithType struct {
	Href string `json:"href"`
	Type string `json:"type"`
}

type FeedLinks struct {
	Timeline           LinkWithType                `json:"timeline"`
	User               LinkWithType                `json:"user"`
	SecurityAdvisories wire.Optional[LinkWithType] `json:"security_advisories,omitzero"`
}

type Feed struct {
	TimelineURL           string                `json:"timeline_url"`
	UserURL               string                `json:"user_url"`
	CurrentUserURL        wire.Optional[string] `json:"current_user_url,omitzero"`
	SecurityAdvisoriesURL wire.Optional[string] `json:"security_advisories_url,omitzero"`
	Links                 FeedLinks             `json:"_links"`
}

type ScimMember struct {
	Value   string                `json:"value"`
	Ref     string                `json:"$ref"`
	Display wire.Optional[string] `json:"display,omitzero"`
}

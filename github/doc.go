// Package github declares the GitHub REST API record shapes used by this
// module: users, licenses, repositories (with the template repository
// cycle), labels and the label union, issues, deployments and their payload
// union, GitHub App metadata and a few literal-key records.
//
// Registry bootstraps every shape once. Near-duplicate shapes such as
// minimal-repository or nullable-simple-user are derived from the canonical
// record with dsl.View, never copied. The structs in types.go mirror the
// records for callers that prefer static types through codec.Typed.
package github

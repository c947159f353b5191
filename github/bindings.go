package github

import (
	"errors"
	"fmt"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/codec"
)

type binding struct {
	name  string
	check func(*sw.Registry, string) error
}

// bindings pairs each typed struct with the registered shapes it mirrors.
var bindings = []binding{
	{NameSimpleUser, codec.Conform[SimpleUser]},
	{NameNullableSimpleUser, codec.Conform[SimpleUser]},
	{NameLicenseSimple, codec.Conform[LicenseSimple]},
	{NameRepositoryPermissions, codec.Conform[RepositoryPermissions]},
	{NameCodeOfConduct, codec.Conform[CodeOfConduct]},
	{NameRepository, codec.Conform[Repository]},
	{NameMinimalRepository, codec.Conform[MinimalRepository]},
	{NameLabel, codec.Conform[Label]},
	{NameIssue, codec.Conform[Issue]},
	{NameDeployment, codec.Conform[Deployment]},
	{NameIntegration, codec.Conform[Integration]},
	{NameIntegrationPermissions, codec.Conform[IntegrationPermissions]},
	{NameLinkWithType, codec.Conform[LinkWithType]},
	{NameFeed, codec.Conform[Feed]},
	{NameScimMember, codec.Conform[ScimMember]},
}

// CheckBindings verifies that every typed struct of this package agrees with
// its shape in reg: same keys, and wrappers matching each presence mode.
func CheckBindings(reg *sw.Registry) error {
	var errs []error
	for _, b := range bindings {
		if err := b.check(reg, b.name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// BoundNames returns the registered names that have a typed struct.
func BoundNames() []string {
	out := make([]string, len(bindings))
	for i, b := range bindings {
		out[i] = b.name
	}
	return out
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os/exec"

	"github.com/ducklauncher/duck/internal/account"
	"github.com/ducklauncher/duck/internal/cache"
	"github.com/ducklauncher/duck/internal/issue"
	"github.com/ducklauncher/duck/internal/metadata"
	"github.com/ducklauncher/duck/internal/provision"
	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/platform"
)

// issueRules map engine sentinels to catalog guides. The first match wins.
var issueRules = []struct {
	target     error
	id         issue.Id
	operation  string
	suggestion string
}{
	{provision.ErrMissingVersion, issue.VersionNotFoundId, "find version", "Run 'duck versions --all' to list known versions"},
	{cache.ErrFetch, issue.FetchFailedId, "download artifacts", "Run the command again; completed files are kept"},
	{manifest.ErrParse, issue.ManifestParseFailedId, "parse manifest", "Run 'duck versions --refresh' to refetch the index"},
	{metadata.ErrSchemaVersion, issue.MetadataSchemaId, "load library metadata", "Move libraries_metadata.json aside and sync again"},
	{platform.ErrUnsupportedOS, issue.HostNotSupportedId, "select platform", "Pass --os windows, linux or macos"},
	{exec.ErrNotFound, issue.JavaNotFoundId, "start the game", "Set launcher.java_path in your config"},
	{account.ErrInvalidAccount, issue.ProfileInvalidId, "load account", "Run 'duck account set <name>' or launch with --offline <name>"},
}

// classify attaches a catalog guide to err when one applies. Errors that
// already name a guide are returned unchanged.
func classify(err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		return err
	}
	for _, rule := range issueRules {
		if !errors.Is(err, rule.target) {
			continue
		}
		if ae != nil {
			ae.IssueID = rule.id
			return err
		}
		return issue.NewErrorContext().
			WithOperation(rule.operation).
			WithSuggestion(rule.suggestion).
			WithIssue(rule.id).
			Wrap(err).
			BuildError()
	}
	return err
}

// withIssue links err to guide id, wrapping it in an ActionableError for
// operation when it is not one already.
func withIssue(err error, id issue.Id, operation string) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		if ae.IssueID == 0 {
			ae.IssueID = id
		}
		return err
	}
	return issue.NewErrorContext().
		WithOperation(operation).
		WithIssue(id).
		Wrap(err).
		BuildError()
}

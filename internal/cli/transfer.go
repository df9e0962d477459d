package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// NewImportSiteCommand creates the "import-site" cobra command. Downloading
// a site from its server is not implemented yet; the command reports so.
func NewImportSiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-site [site-name]",
		Short: "Download a site from its remote server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, args, "Which site details would you like to download",
				func(name string) error { return newRepository().Download(name) })
		},
	}
}

// NewExportSiteCommand creates the "export-site" cobra command. Uploading a
// site to its server is not implemented yet; the command reports so.
func NewExportSiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-site [site-name]",
		Short: "Upload a site to its remote server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, args, "Which site details would you like to upload to remote server",
				func(name string) error { return newRepository().Upload(name) })
		},
	}
}

// runTransfer selects a site and hands it to transfer.
func runTransfer(cmd *cobra.Command, args []string, question string, transfer func(name string) error) error {
	repo := newRepository()

	name, err := selectSite(cmd, repo, args, question)
	if err != nil {
		return model.WrapError("failed to select site", err)
	}
	if _, err := repo.Load(name); err != nil {
		return model.WrapError("failed to load site", err)
	}

	if err := transfer(name); err != nil {
		return model.WrapError("transfer failed", err)
	}
	return nil
}

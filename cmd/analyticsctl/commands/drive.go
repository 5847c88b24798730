package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rooted/analytics/internal/infrastructure/gdrive"
)

const defaultFolderName = "Rooted Analytics Reports"

func driveCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Google Drive setup",
	}
	cmd.AddCommand(driveSetupFolderCmd(e))
	return cmd
}

func driveSetupFolderCmd(e *env) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "setup-folder",
		Short: "Create the shared reports folder and print its ID",
		Long: "Creates the reports folder with the service account, transfers ownership to\n" +
			"the workspace owner and shares it with the organization domain. Set\n" +
			"ANALYTICS_GOOGLE_DRIVE_FOLDER_ID to the printed ID afterwards.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drive, err := gdrive.New(cmd.Context(), e.cfg.Google, nil, gdrive.WithLogger(e.log))
			if err != nil {
				return err
			}

			setup, err := drive.SetupFolder(cmd.Context(), name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(setup.Existing) > 0 {
				fmt.Fprintf(out, "Folder %q already exists:\n", name)
				for _, f := range setup.Existing {
					fmt.Fprintf(out, "  %s  %s\n", f.ID, f.WebViewLink)
				}
				return nil
			}
			fmt.Fprintf(out, "Created folder %q\n", setup.Folder.Name)
			fmt.Fprintf(out, "  id:   %s\n", setup.Folder.ID)
			fmt.Fprintf(out, "  link: %s\n", setup.Folder.WebViewLink)
			fmt.Fprintf(out, "\nSet ANALYTICS_GOOGLE_DRIVE_FOLDER_ID=%s\n", setup.Folder.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", defaultFolderName, "folder name")
	return cmd
}

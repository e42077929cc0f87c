package cli

import (
	"errors"

	"accounts-cli/internal/store"

	"github.com/spf13/cobra"
)

var errDoctorFailed = errors.New("doctor: workspace has errors")

type doctorPayload struct {
	Data store.DoctorReport `json:"data"`
}

func (p doctorPayload) Table() ([]string, [][]string) { return p.Data.Table() }

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the workspace database for rows the list view cannot load",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rep, err := s.Doctor(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := writeOut(cmd, app, doctorPayload{Data: rep}); err != nil {
				return err
			}
			if rep.HasErrors() {
				// The report is already on stdout.
				return errDoctorFailed
			}
			return nil
		},
	}
}

func newBackupCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a consistent copy of the workspace database",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := s.Backup(cmd.Context(), out)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info().Str("path", path).Msg("backup written")
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Destination file or directory (default: <workspace>/backups)")
	return cmd
}

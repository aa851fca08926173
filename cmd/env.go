package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/playtime/minecraft-bootstrap/bootstrap"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Install a server configured through environment variables",
	Long: `Read EULA, VERSION, WORKING_DIR and TYPE (VANILLA or CURSEFORGE) from the
environment, plus CURSEFORGE_API_TOKEN/CF_API_TOKEN and CURSEFORGE_MODPACK_ID/CF_MODPACK_ID
for CurseForge. SERVER_ICON_URL and SERVER_PROPERTIES (key=value pairs separated by
newlines or ';') are optional. Existing installations are always replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap.NewEnvironment(reportStatus)
		if err != nil {
			return err
		}
		opts, err := env.Collect()
		if err != nil {
			return err
		}
		cfg, err := bootstrap.NewConfig(opts)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func reportStatus(s bootstrap.Status) {
	if s.OK {
		log.Info(s.String())
		return
	}
	log.Error(s.String())
}

func init() {
	rootCmd.AddCommand(envCmd)
}

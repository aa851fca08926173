package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/playtime/minecraft-bootstrap/bootstrap"
	"github.com/playtime/minecraft-bootstrap/core"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install a server into a directory",
	Long: `Install a vanilla server, a server pack downloaded from a URL, or the latest
file of a CurseForge modpack into the destination directory, then write the EULA,
merge server.properties overrides and convert the server icon.`,
	Example: `  minecraft-bootstrap install --accept-eula --type vanilla --version 1.20.1 --destination /srv/mc
  minecraft-bootstrap install --accept-eula --type manual --server-pack-url https://example.com/pack.zip --download-server-jar --destination ./server
  minecraft-bootstrap install --accept-eula --type curseforge --curseforge-modpack-id 285109 --destination /srv/mc --server-property motd=Hello`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := bootstrap.DecodeOptions(viper.AllSettings())
		if err != nil {
			return usageError{err}
		}
		cfg, err := bootstrap.NewConfig(opts)
		if err != nil {
			return usageError{err}
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().Bool("accept-eula", false, "Accept the Minecraft EULA (required)")
	_ = viper.BindPFlag("accept-eula", installCmd.Flags().Lookup("accept-eula"))

	installCmd.Flags().String("type", "", "Server type: vanilla, manual or curseforge (required)")
	_ = viper.BindPFlag("type", installCmd.Flags().Lookup("type"))

	installCmd.Flags().String("destination", "", "Directory to install the server into (required)")
	_ = viper.BindPFlag("destination", installCmd.Flags().Lookup("destination"))

	installCmd.Flags().String("version", "", "Minecraft version as X.Y.Z (required for vanilla)")
	_ = viper.BindPFlag("version", installCmd.Flags().Lookup("version"))

	installCmd.Flags().String("server-pack-url", "", "URL of the server pack ZIP (required for manual)")
	_ = viper.BindPFlag("server-pack-url", installCmd.Flags().Lookup("server-pack-url"))

	installCmd.Flags().String("server-jar-url", core.DefaultSettings().ServerJarURL, "URL of the server launcher jar used with --download-server-jar")
	_ = viper.BindPFlag("server-jar-url", installCmd.Flags().Lookup("server-jar-url"))

	installCmd.Flags().Bool("download-server-jar", false, "Also download the server launcher jar (manual only)")
	_ = viper.BindPFlag("download-server-jar", installCmd.Flags().Lookup("download-server-jar"))

	installCmd.Flags().String("server-icon-url", "", "URL of an image to use as server icon")
	_ = viper.BindPFlag("server-icon-url", installCmd.Flags().Lookup("server-icon-url"))

	installCmd.Flags().Bool("pass-if-exists", false, "Exit successfully when the destination already holds an installation")
	_ = viper.BindPFlag("pass-if-exists", installCmd.Flags().Lookup("pass-if-exists"))

	installCmd.Flags().Bool("force-install", false, "Install even when the destination already holds an installation")
	_ = viper.BindPFlag("force-install", installCmd.Flags().Lookup("force-install"))

	installCmd.Flags().StringArray("server-property", nil, "Override a server.properties entry as key=value (repeatable)")
	_ = viper.BindPFlag("server-property", installCmd.Flags().Lookup("server-property"))

	installCmd.Flags().StringArray("exclude", nil, "Skip archive entries matching a gitignore-style pattern (repeatable)")
	_ = viper.BindPFlag("exclude", installCmd.Flags().Lookup("exclude"))

	installCmd.Flags().String("curseforge-api-token", "", "CurseForge API key (or CURSEFORGE_API_TOKEN / CF_API_TOKEN)")
	_ = viper.BindPFlag("curseforge-api-token", installCmd.Flags().Lookup("curseforge-api-token"))
	_ = viper.BindEnv("curseforge-api-token", "CURSEFORGE_API_TOKEN", "CF_API_TOKEN")

	installCmd.Flags().String("curseforge-modpack-id", "", "CurseForge modpack project id (or CURSEFORGE_MODPACK_ID / CF_MODPACK_ID)")
	_ = viper.BindPFlag("curseforge-modpack-id", installCmd.Flags().Lookup("curseforge-modpack-id"))
	_ = viper.BindEnv("curseforge-modpack-id", "CURSEFORGE_MODPACK_ID", "CF_MODPACK_ID")
}

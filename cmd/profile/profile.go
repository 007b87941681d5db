package profile

import (
	"fmt"
	"io"
	"os"

	"toolkit-keeper/cmd/root"
	"toolkit-keeper/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var profilePath string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "工具包配置文件操作",
	Long:  `显示或校验工具包配置文件，不需要守护进程运行`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "显示解析后的配置",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showProfile(resolvePath(), os.Stdout)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "校验配置文件",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateProfile(resolvePath(), os.Stdout)
	},
}

func resolvePath() string {
	if profilePath != "" {
		return profilePath
	}
	return config.Config.Runtime.Profile
}

/**
 * Print profile as decoded by the runtime
 * @param {string} path - Profile file path
 * @param {io.Writer} out - Output writer
 * @returns {error} Load or encode error
 * @description
 * - Output shows the effective values, including zero values the file omitted
 */
func showProfile(path string, out io.Writer) error {
	profile, err := config.LoadProfile(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(profile)
}

func validateProfile(path string, out io.Writer) error {
	profile, err := config.LoadProfile(path)
	if err != nil {
		return err
	}
	if err := config.ValidateProfile(profile); err != nil {
		return fmt.Errorf("profile %s is invalid:\n%w", path, err)
	}
	fmt.Fprintf(out, "profile %s is valid\n", path)
	return nil
}

func init() {
	root.RootCmd.AddCommand(profileCmd)
	profileCmd.PersistentFlags().StringVarP(&profilePath, "file", "f", "", "profile path (default: runtime.profile)")
	profileCmd.AddCommand(showCmd)
	profileCmd.AddCommand(validateCmd)

	profileCmd.Example = `  toolkit-keeper profile validate -f ./profile.yaml`
}

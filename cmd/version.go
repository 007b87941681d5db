package cmd

import (
	"fmt"
	"runtime"

	"toolkit-keeper/cmd/root"
	"toolkit-keeper/internal/env"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X toolkit-keeper/cmd.SoftwareVer=..." at build time.
var (
	SoftwareVer   = ""
	BuildTime     = ""
	BuildTag      = ""
	BuildCommitId = ""
)

func PrintVersions() {
	if SoftwareVer != "" {
		env.Version = SoftwareVer
	}
	fmt.Printf("toolkit-keeper %s (%s/%s, %s)\n", env.Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Build Tag: %s\n", BuildTag)
	fmt.Printf("Build Commit ID: %s\n", BuildCommitId)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Show version, build details and the platform the binary was built for`,
	Run: func(cmd *cobra.Command, args []string) {
		PrintVersions()
	},
}

func init() {
	root.RootCmd.AddCommand(versionCmd)

	versionCmd.Example = `  toolkit-keeper version`
}

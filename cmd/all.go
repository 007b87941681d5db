package cmd

import (
	_ "toolkit-keeper/cmd/platform"
	_ "toolkit-keeper/cmd/profile"
	_ "toolkit-keeper/cmd/root"
	_ "toolkit-keeper/cmd/server"
	_ "toolkit-keeper/cmd/service"
)

package cmd

import (
	_ "module-keeper/cmd/misc"
	_ "module-keeper/cmd/module"
	_ "module-keeper/cmd/root"
	_ "module-keeper/cmd/server"
)

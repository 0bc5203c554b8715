// Command jobrun runs the demo task module. Embedding binaries register
// their own tasks and call jobrun.Main instead.
package main

import (
	"github.com/taskworks/jobrun/cmd"
	"github.com/taskworks/jobrun/demo"
)

func main() {
	cmd.Execute(demo.Registry())
}

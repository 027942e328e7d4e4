package main

import "github.com/khrees2412/jobmatch/cmd"

func main() {
	cmd.Execute()
}

/*
Copyright © 2024 Emmand87
*/
package main

import "github.com/Emmand87/ricomu-knowledge-service/cmd"

func main() {
	cmd.Execute()
}

// Package main GitBridge repository facade API
//
//	@title			GitBridge API
//	@version		1.0.0
//	@description	GitBridge is a stateful HTTP facade over a local git repository
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host			localhost:3000
//	@BasePath		/api/v1
package main

import "github.com/gitbridge/gitbridge/internal"

//go:generate swag init --parseDependency --outputTypes go -g ./main.go -o ./internal/server/docs

func main() {
	internal.Run()
}

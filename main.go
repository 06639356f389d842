package main

import "bookshelf/commands"

// @title Bookshelf API
// @version 1.0
// @description Books, authors, libraries and a blog behind one permission-gated API.

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	commands.Execute()
}

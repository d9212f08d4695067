package main

import "github.com/stitchboard/tailor-admin/cmd"

// @title                      Tailor Admin API
// @version                    1.0
// @description                Accounts, role-gated access and client measurement records for a tailoring shop.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cmd.Execute()
}

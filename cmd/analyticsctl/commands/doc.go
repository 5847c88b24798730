// Package commands implements analyticsctl, the operator CLI. It shares
// configuration with the server and talks to the same warehouse and Google
// Drive account.
package commands

// Package scenarios provides a roles/users schema and two layered sample scenarios:
// CreateRoles seeds one role, CreateUsers preloads CreateRoles and seeds five users.
package scenarios

// Package app is the application layer - the only component that references
// multiple domain components. It orchestrates registration, login, and the
// two-phase domain provisioning flow (remote record creation, then the local
// inventory append).
package app

// Package structure provides rules that check required sections are present.
//
//   - ST01: API Presence - api.rpms must list at least one package
//   - ST02: Components Presence - at least one rpm or module component
package structure

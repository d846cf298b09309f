// Package placeholder provides rules for checks that cannot be performed yet.
//
// Neither rule contacts a registry or a repository. They always emit a finding
// so the unverified state stays visible in every report.
//
//   - PH01: Dependency Sanity - one WARN per requires/buildrequires entry
//   - PH02: Component Availability - one WARN per component
package placeholder

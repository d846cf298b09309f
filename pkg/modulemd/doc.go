// Package modulemd loads modulemd documents (versions 1 and 2) and exposes
// them through the lint.Document interface.
//
// Mapping order from the YAML source is preserved for components and
// dependencies so findings are reported in the order authors wrote them.
//
// Version 2 dependency blocks list several streams per module. They are
// flattened into one lint.DependencyInfo per module/stream pair; an empty
// stream list, meaning "any stream", becomes the stream AnyStream.
package modulemd

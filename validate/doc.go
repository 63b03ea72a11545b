// Package validate runs the one-shot checks the topology engine performs
// exactly once, at construction: every required attribute is present, has
// the right GML type and is within range, and an ip_address, when present,
// is a string. It looks attributes up only by their canonical names:
// declared keys outside that set are not checked, and a city_code,
// country_code or label that is not a string is ignored rather than
// rejected. It also computes the graph's connectivity/completeness
// classification, which the engine compares against its configured policy.
//
// The strongly-connected-components routine has no line-for-line
// predecessor to adapt (cycle detection and topological sort are not the
// same problem), so it is hand-built in the surrounding corpus's
// vertex-coloring idiom: White/Gray/Black discovery states and numbered-step
// comments.
package validate

// Package sources defines the contract shared by every harvester and the
// plumbing they have in common.
//
// A Source performs one full harvest and returns raw candidates. Collect then
// applies the shared scope filter, the per-source author policy and record
// normalization, counting rejections by reason. Adapters live in sub-packages
// (irbis, oaipmh, sru, z3950, wikidata, csvfile) and build on the resty client,
// MARC decoders, and free-text year extractors defined here.
package sources

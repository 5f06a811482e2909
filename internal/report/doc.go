// Package report aggregates candidate/working association records into a
// ReportModel.
//
// Build pipeline:
//  1. Query the Repository for associations whose working falls in the window
//  2. Group records by candidate into CandidateBlocks, one ProgressEvent each
//  3. Sort every timeline by date
//  4. Compute the Summary from the grouped blocks
//  5. Emit the appendix, one row per record, sorted by date
//  6. Resolve the lodge the report is about and its Worshipful Master
//
// The repository is addressed only through the names stored in a Mapping,
// so the aggregator never knows the host schema at compile time.
package report

// Package electionservice implements the club election and ballot workflow
// inside the club-governance context.
//
// The module owns the election lifecycle (create/update/delete with nested
// positions and candidates), single-use voting token issuance, token-gated
// ballot validation and recording, and live tallies. Business rules live in
// the application/domain layers; storage and transport stay behind ports and
// adapters. Ballot anonymity is structural: vote rows never reference a
// voter, only the redeemed token does.
package electionservice

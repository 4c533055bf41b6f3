// Package attribution parses the free-text speaker attributions found in
// proceeding records.
//
// An attribution such as "Jane Doe (Anytown) (Lab)" is classified by the
// first matching rule into a Kind and split into identity fields. Party
// labels are canonicalised by NormalizeAffiliation so that every spelling
// of a party ends up under one name.
package attribution

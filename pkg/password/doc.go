// Package password contains the password policy engine and credential
// hashing for the admin account.
//
// The policy side is pure: Validate collects every unmet rule so the UI
// can show them all at once, and Strength scores a candidate for live
// feedback. The two are independent on purpose - a strength score is
// never a substitute for passing validation.
//
// The hashing side follows a versioned hasher scheme so stored digests
// can migrate between algorithms. Argon2id is the current version;
// bcrypt hashers remain for verifying older digests.
package password

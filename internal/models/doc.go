// Package models defines the persisted domain models for Splitledger.
//
// # Models
//
//   - User: a person who can belong to groups
//   - Group: a set of members sharing expenses
//   - Expense: one payment by a member, divided into ExpenseSplits
//   - Settlement: a direct payment between two members
//
// # Design Principles
//
// 1. **Ledger records are immutable**: expenses and settlements are created once and
// never edited; balances are always recomputed from them.
// 2. **Money is decimal**: amounts use shopspring/decimal with two fractional digits.
// 3. **Avoid circular references**: Use ID strings instead of pointers for relationships.
// 4. **Membership order matters**: Group.Members keeps the order members joined, which
// decides who absorbs the remainder of an equal split.
package models

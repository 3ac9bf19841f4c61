// Package models defines the core domain models for SplitMate.
//
// # Models
//
//   - User: a person who can belong to groups and share expenses
//   - Group: an ordered list of members who split expenses together
//   - Expense: a payment made by one member and shared by some members
//   - Settlement: a payment between two members that clears debt
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers (no circular references)
//  2. Member order inside a group is meaningful: balance views and settlement
//     suggestions follow it
//  3. Derived values (balances, suggestions) live in the calculator package and
//     are never persisted
package models

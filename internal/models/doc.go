// Package models defines the core domain models for settleup.
//
// # Models
//
//   - Event: a shared occasion (trip, dinner, flat) identified by a short invite code
//   - Participant: a person taking part in an event
//   - Expense: money one participant spent on behalf of a set of participants
//   - Transaction: money one participant handed to another to settle debt
//   - Tag: a category that expenses can be filed under
//
// # Design Principles
//
//  1. Records are plain values; derived values (debt matrix, balances, settlement
//     plans) live in the calculator and are never stored.
//  2. Relationships use ID strings instead of pointers, so participants are
//     compared by identity, never by display name.
//  3. Money is carried as decimal.Decimal with an ISO-4217 currency code.
package models

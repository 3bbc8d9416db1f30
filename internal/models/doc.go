// Package models defines the core domain models for splitbill.
//
// # Entities
//
//   - Person: a diner who may be assigned items; colour is picked from a
//     fixed palette by insertion order
//   - Item: a priced line on the bill (amounts in the smallest currency unit)
//   - BillConfig: the bill-wide tax and tip rules
//   - Bill: a persisted bill with its people, items, config and wizard step
//
// # Derived values
//
//   - Snapshot: an immutable copy of a bill's items, people and config; the
//     allocation engine only ever reads snapshots
//   - BillSummary / PersonSplit: the engine's output, never stored
//
// # Design Principles
//
//  1. **Integers for prices**: unit prices and fixed tips are int64 minor units
//  2. **Decimals for shares**: derived amounts keep fractional precision so the
//     per-person breakdown sums back to the bill
//  3. **IDs, not pointers**: assignments reference person IDs
package models

// Package datetime implements civil date and time arithmetic in the proleptic
// Gregorian calendar.
//
// An Instant is a point on the UTC time line. A LocalDate, LocalTime or
// LocalDateTime is a civil reading without a zone. A TimeZone maps between the
// two; where a reading is skipped (a gap) or repeated (an overlap) by a
// transition, UnresolvedZonedDateTime.Resolve decides deterministically which
// instant it denotes.
//
// Displacements (Plus, PlusPeriod, Minus, MinusPeriod) fail with an
// *ArithmeticError when the result cannot be represented. Distances (Until and
// the DaysUntil family) never fail; they saturate at the limits of their result
// type instead.
//
// Units and periods live in package period. Zone rule data is supplied by
// package zone.
package datetime

// Package timezone pins every wall-clock value the service reads or writes to
// the zone named by APP_TIMEZONE.
//
// Booking boundaries arrive without an offset, so ParseLocal interprets them in
// that zone and refuses wall-clock times a daylight saving jump skips over.
// FormatLocal is its inverse for responses. The location is resolved once when
// the package is imported; tests may swap it with SetLocation.
package timezone

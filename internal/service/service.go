// Package service implements business logic, validation, and
// orchestration between HTTP handlers and the entity store: upserts for
// users and restaurants, availability replacement, and the invitation
// scoring, ranking, and confirmation flow.
package service

import "errors"

// ErrInvalidArgument is returned for caller mistakes that are not
// missing entities: malformed slots, non-positive limits, out-of-range
// option indexes. Missing entities surface as store.ErrNotFound.
var ErrInvalidArgument = errors.New("invalid argument")

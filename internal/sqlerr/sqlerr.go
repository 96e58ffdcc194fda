// Package sqlerr turns PostgreSQL driver errors into API errors, such as a
// foreign key violation into a 400 naming the missing entity.
package sqlerr

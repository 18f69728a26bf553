// Package textutil provides text helpers for building metadata lookup
// queries: splitting trailing years from titles and folding diacritics so
// provider searches match ASCII-normalized catalogs.
package textutil

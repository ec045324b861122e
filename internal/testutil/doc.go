// Package testutil contains helper builders and backend handlers used across
// tests to reduce boilerplate when constructing model responses and scripting
// backend behavior (delays, failures, missing content). These helpers are
// intentionally minimal and are not intended for production usage.
package testutil

// Package mongodb implements the storages of the authorization endpoint on
// top of MongoDB. Call EnsureIndexes once before serving requests, the
// uniqueness guarantees of the managers rely on the indexes it creates.
package mongodb

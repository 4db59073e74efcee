/*
Package orm stores models in a key value store.

A ModelBucket owns a key prefix and a single model type. Every key is stored
as the bucket name, a colon and the model key, so buckets never overlap as
long as their names are unique and contain no colon.
*/
package orm

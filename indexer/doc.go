// Package indexer builds the embedding table the semantic search path ranks
// against.
//
// Every catalog model carries example queries grouped by audience level.
// The builder flattens them into rows, embeds the rows in batches with
// exponential-backoff retries, and writes the embeddings artifact.
package indexer

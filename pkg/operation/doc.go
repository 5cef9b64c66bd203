/*
Package operation runs a whole config: it builds the queries, patches every
file and reports the result.

	+-------------+
	|   Runner    |
	+------+------+
	       |
	+------+------+      +-------------+
	|   Compute   | ---> |    patch    |
	| (parallel)  |      | FilePatcher |
	+------+------+      +-------------+
	       |
	+------+------+
	|   Report    |
	| (in order)  |
	+-------------+

🔄 Flow:
 1. Expand placeholders into every replacement and compile the queries;
    an invalid pattern stops the run before any file is read
 2. Resolve file entries (paths and globs) into targets
 3. Compute a FilePatcher per target, Jobs at a time
 4. In config order: print the diff, then write it when Apply is set

⚡ Errors:
A file that cannot be resolved, read, decoded or written is reported and
skipped. The run continues with the remaining files and returns a
*RunError listing every failure, so the caller can exit non-zero.
*/
package operation

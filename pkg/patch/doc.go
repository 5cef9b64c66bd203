/*
Package patch applies queries to text files one line at a time.

	+-------------+      +-------------+      +--------------+
	| FilePatcher | ---> | LinePatcher | ---> | query.Query  |
	| (per file)  |      | (per line)  |      | (per rule)   |
	+------+------+      +-------------+      +--------------+
	       |
	+------+------+
	| Replacement |
	|  (diff)     |
	+-------------+

🎯 Purpose:
- Compute the patched contents of a file without touching it
- Record every changed line for preview
- Write the result back only when asked

🔄 Flow:
 1. New reads the file, splitting on '\n' ('\r' stays part of the line)
 2. For each line the first query that changes it wins
 3. Every output line ends with exactly one '\n'
 4. WritePatch renders the preview, Run commits it

⚡ Failure:
A read error or a line that is not valid UTF-8 aborts the whole file; no
partial contents are produced and nothing is written. Run overwrites the
file in place and is not atomic.

🔍 Example:

	fp, err := patch.New(path, []query.Query{query.Substring("old", "new")})
	if err != nil {
		return err
	}
	fp.PrintPatch()
	if apply {
		return fp.Run()
	}
*/
package patch

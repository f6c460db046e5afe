// Command pioneerctl reads and writes Pioneer DJ analysis files, export
// databases and settings files, and exports a rekordbox XML library to a
// USB root.
package main

func main() {
	execute()
}

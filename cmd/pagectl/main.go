// Command pagectl probes and exercises the pagesys page backend.
package main

func main() {
	execute()
}

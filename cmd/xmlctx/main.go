// Command xmlctx inspects documents and configuration for xmlctx registries.
package main

func main() {
	Execute()
}

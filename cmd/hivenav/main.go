// Command hivenav inspects Windows registry hive files read-only.
package main

func main() {
	execute()
}

// Package cli implements the interactive securematch shell.
//
// The App wires the access state machine, the search orchestrator and the
// auditor service to a line-oriented REPL. Commands:
//
//	help                          commands available to the current role
//	role internal|external        select a role (leaving the current one)
//	auditors                      list auditors (refreshes while selecting)
//	login <auditor-id>            external: bind a private key to an auditor
//	search [field] <keyword...>   run a search for the current role
//	log                           progress log of the last search
//	metrics                       metrics dashboard for the current role
//	create-auditor <name>         internal: create an auditor, key shown once
//	delete-auditor <id>           internal: delete an auditor
//	logout                        back to role selection, wipes the key
//	exit | quit                   leave
//
// Private key material is read without echo when stdin is a terminal. It
// may be pasted as one line with literal \n escapes, or given as @path.
package cli

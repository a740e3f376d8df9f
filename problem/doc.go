/*
Package problem implements Problem contract, the registry of bounty-backed
problems.

Any account can submit a problem with a title, a description and a
non-negative bounty. The account becomes the problem submitter: only it can
change the bounty or close the problem later. Problem records are public and
never deleted.

All methods return Result structure. Failed calls do not change the contract
storage and carry one of the numeric codes:

	400: invalid input (empty or too long text, negative bounty, malformed caller)
	403: caller is not the problem submitter
	404: problem does not exist

Callers are passed explicitly and must witness the invocation.

# Contract notifications

ProblemSubmitted notification. This notification is produced when a new
problem is registered.

	ProblemSubmitted:
	  - name: id
	    type: Integer
	  - name: submitter
	    type: Hash160
	  - name: bounty
	    type: Integer

BountyUpdated notification. This notification is produced when the submitter
changes the bounty of the problem.

	BountyUpdated:
	  - name: id
	    type: Integer
	  - name: bounty
	    type: Integer

ProblemClosed notification. This notification is produced when the submitter
closes the problem.

	ProblemClosed:
	  - name: id
	    type: Integer
*/
package problem

/*
Contract storage model.

# Summary
Current conventions:
 <id>: little-endian integer problem identifier, starting from 1

Key-value storage format:
 - 'n' -> int
   identifier of the latest submitted problem
 - 'p<id>' -> std.Serialize(Problem)
   problem records
*/

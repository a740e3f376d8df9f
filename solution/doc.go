/*
Package solution implements Solution contract, the ledger of problem
solutions.

Any account can submit a solution to a problem registered in the Problem
contract. The address of the Problem contract is passed on deployment:

	[problemContractAddress]

The submitting account becomes the solution contributor and the only account
allowed to revise the content. Every revision increments the solution version
by one and marks the solution as updated. Solution identifiers are allocated
independently from problem identifiers.

submitSolution, updateSolution and getSolution return Result structure, see
problem package documentation for the failure codes. getProblemSolutions returns an
iterator over solution identifiers, so the number of solutions per problem is
not limited by the VM stack.

# Contract notifications

SolutionSubmitted notification. This notification is produced when a new
solution is registered.

	SolutionSubmitted:
	  - name: id
	    type: Integer
	  - name: problemID
	    type: Integer
	  - name: contributor
	    type: Hash160

SolutionUpdated notification. This notification is produced when the
contributor revises the solution.

	SolutionUpdated:
	  - name: id
	    type: Integer
	  - name: version
	    type: Integer
*/
package solution

/*
Contract storage model.

# Summary
Current conventions:
 <id>: little-endian integer solution identifier, starting from 1
 <problem8>, <id8>: 8-byte big-endian problem and solution identifiers

Key-value storage format:
 - 'a' -> interop.Hash160
   Problem contract address
 - 'n' -> int
   identifier of the latest submitted solution
 - 's<id>' -> std.Serialize(Solution)
   solution records
 - 'l<problem8><id8>' -> int
   solution identifier; keys of one problem are iterated in submission order
*/

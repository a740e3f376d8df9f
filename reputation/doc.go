/*
Package reputation implements Reputation contract which keeps scores of the
bounty platform contributors.

Score is a running sum of all point deltas applied to the account. Deltas are
applied by the committee, which runs the reputation policy over problem and
solution lifecycle events; neither Problem nor Solution contract changes
reputation on its own. Accounts that never got any points have zero score.

All methods return Result structure, see problem package documentation for
the failure codes.

# Contract notifications

ReputationUpdated notification. This notification is produced when the score
of the account changes.

	ReputationUpdated:
	  - name: user
	    type: Hash160
	  - name: points
	    type: Integer
	  - name: score
	    type: Integer
*/
package reputation

/*
Contract storage model.

# Summary
Current conventions:
 <user>: 20-byte script hash of the account

Key-value storage format:
 - 'r<user>' -> std.Serialize(Reputation)
   reputation records
*/

// Package task defines the task record and the creation form rules.
//
// A task serializes as:
//
//	{
//	  "id": "0b6f6d1e-3c55-4f43-9a57-8f1d1c6f3a0e",
//	  "title": "Buy milk",
//	  "description": "Two liters",
//	  "completed": false
//	}
//
// # Creation form
//
// A Draft is what the user typed. Validate applies the form rules:
//
//   - the title must not be empty
//   - the description must not exceed 100 characters
//
// New turns a valid Draft into a Task with a fresh UUID and completed set
// to false. The store never validates; callers run the form rules first.
package task

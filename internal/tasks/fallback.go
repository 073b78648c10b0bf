package tasks

// Fallback returns the generic plan used whenever the model gives nothing
// usable. Each call returns a fresh slice.
func Fallback() []Task {
	return []Task{
		{Name: "Setup Backend", Description: "Initialize FastAPI backend", AssignedTo: "Backend"},
		{Name: "Setup Frontend", Description: "Initialize React app", AssignedTo: "Frontend"},
		{Name: "Integrate APIs", Description: "Connect frontend and backend", AssignedTo: "Coordinator"},
	}
}

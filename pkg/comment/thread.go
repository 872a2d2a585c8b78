package comment

import "github.com/dukex/flowdesk/pkg/models"

// Thread groups comments into root threads, in insertion order. Every reply
// is listed under the root its parent chain leads to, so nested replies are
// flattened one level deep. A reply whose parent is missing is promoted to a
// root; so is a comment caught in a parent cycle.
func Thread(comments []models.WorkflowComment) []models.CommentThread {
	byID := make(map[string]models.WorkflowComment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	roots := make([]string, len(comments))
	for i, c := range comments {
		roots[i] = rootOf(c, byID)
	}

	threads := []models.CommentThread{}
	position := map[string]int{}

	for i, c := range comments {
		if roots[i] != c.ID {
			continue
		}

		position[c.ID] = len(threads)
		threads = append(threads, models.CommentThread{Comment: c, Replies: []models.WorkflowComment{}})
	}

	for i, c := range comments {
		if roots[i] == c.ID {
			continue
		}

		index := position[roots[i]]
		threads[index].Replies = append(threads[index].Replies, c)
	}

	return threads
}

func rootOf(c models.WorkflowComment, byID map[string]models.WorkflowComment) string {
	seen := map[string]struct{}{c.ID: {}}
	current := c

	for current.ParentID != "" {
		parent, ok := byID[current.ParentID]
		if !ok {
			break
		}

		if _, loop := seen[parent.ID]; loop {
			return c.ID
		}

		seen[parent.ID] = struct{}{}
		current = parent
	}

	return current.ID
}

package quiz

// SummaryPrompt asks for a faithful summary of a transcript.
const SummaryPrompt = `Summarize the following transcript for a study guide.

Rules:
- 150 to 250 words
- Keep concrete facts, names and numbers exactly as spoken
- No opinions, no advice, no information that is not in the transcript

Transcript:
---
%s
---

Respond with the summary text only.`

// QuestionsPrompt asks for a multiple-choice quiz grounded in a summary.
const QuestionsPrompt = `Write %d multiple-choice questions that test understanding of the summary below.

Summary:
---
%s
---

Respond with a JSON array only. Each element must have:
- "question": the question text
- "options": an array of 4 answer options
- "answer": the zero-based index of the correct option
- "explanation": one sentence on why the answer is correct

Example:
[
  {
    "question": "What did the speaker lose first?",
    "options": ["Their job", "Their house", "Their savings", "Their car"],
    "answer": 0,
    "explanation": "The speaker says the job went before anything else."
  }
]`

package ai

// analyzePrompt asks for a raw JSON array so parsing stays mechanical.
// containedIn references another detected item by its name because the
// model has no identifiers to work with.
const analyzePrompt = `You are an inventory assistant. Look at this photo of a shelf and list every distinct physical item you can identify.

Respond with ONLY a JSON array, no markdown, no explanations. Each element must have exactly these fields:
- "name": short item name (string)
- "description": one sentence describing the item (string)
- "quantity": how many of this item you see (integer, at least 1)
- "isContainer": true if the item is a box, bin, crate or other container that could hold other items (boolean)
- "containedIn": the "name" of the container this item sits inside, or null if it sits directly on the shelf

Rules:
- Containers have quantity 1.
- Only reference containers that appear elsewhere in your array.
- If you cannot identify any items, respond with [].`

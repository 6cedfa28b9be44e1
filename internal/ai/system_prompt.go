package ai

const questSystemPrompt = `You are a creative game designer specializing in personalized quests for GoTo Ecosystem (GoJek & GoPay).`
